package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	CacheNoCache = 0
	CacheCustom  = -1
)

type CacheRouter struct {
	CacheTime int  // seconds, defaults to CacheNoCache = 0
	Public    bool // shared caches (CDN, proxies) may keep the response too
}

func (cr *CacheRouter) Handler() gin.HandlerFunc {
	scope := "private"
	if cr.Public {
		scope = "public"
	}
	return func(c *gin.Context) {
		switch cr.CacheTime {
		case CacheCustom:
		case CacheNoCache:
			c.Header("cache-control", "no-cache")
		default:
			c.Header("cache-control", scope+", max-age="+strconv.Itoa(cr.CacheTime))
		}
		c.Next()
	}
}
