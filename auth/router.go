package auth

import (
	"time"

	"github.com/gin-gonic/gin"

	"tooltipper/annotation"
)

// HandlerFunc is called with the author's workspace locked
type HandlerFunc func(c *gin.Context, ws *Workspace)

// Router is a wrapper class that resolves the author workspace from the session cookie
type Router struct {
	Base       *gin.Engine
	NewSession func() *annotation.Session
}

func (cr *Router) baseExec(c *gin.Context, handler HandlerFunc) {
	session := LoadSession(c)
	ws := getWorkspace(session.WorkspaceID(), cr.NewSession)
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.lastUsed = time.Now()
	handler(c, ws)
}

func (cr *Router) POST(path string, handler HandlerFunc) {
	cr.Base.POST(path, func(c *gin.Context) {
		cr.baseExec(c, handler)
	})
}

func (cr *Router) GET(path string, handler HandlerFunc) {
	cr.Base.GET(path, func(c *gin.Context) {
		cr.baseExec(c, handler)
	})
}
