package web

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tooltipper/annotation"
	"tooltipper/config"
	"tooltipper/db"
	"tooltipper/handlers"
	"tooltipper/models"
	"tooltipper/storage"
	"tooltipper/utils"
)

const maxThumbSize = 4096

func loadView(c *gin.Context) (view annotation.View, ok bool) {
	viewer := annotation.NewViewer(models.NewRepository(db.Instance))
	view, err := viewer.Load(c.Request.Context(), c.Param("shortId"))
	if errors.Is(err, annotation.ErrNotFound) {
		c.JSON(http.StatusNotFound, handlers.Response{Error: "photo not found"})
		return view, false
	}
	if err != nil {
		zap.L().Error("load shared photo", zap.String("short_id", c.Param("shortId")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, handlers.Response{Error: "could not load photo"})
		return view, false
	}
	return view, true
}

// PhotoView is the read-only page behind a share link
func PhotoView(c *gin.Context) {
	view, ok := loadView(c)
	if !ok {
		return
	}
	if c.Query("format") == "json" {
		c.JSON(http.StatusOK, view)
		return
	}
	c.HTML(http.StatusOK, "view.tmpl", gin.H{
		"shortID":  view.Photo.ShortID,
		"imageURL": view.Photo.ImageURL,
		"shareURL": annotation.ShareURL(config.PUBLIC_ORIGIN, view.Photo.ShortID),
		"tooltips": view.Tooltips,
	})
}

// PhotoImage redirects to the stored image, or serves a JPEG thumbnail when size is given
func PhotoImage(c *gin.Context) {
	view, ok := loadView(c)
	if !ok {
		return
	}
	sizeParam := c.Query("size")
	if sizeParam == "" {
		c.Redirect(http.StatusFound, view.Photo.ImageURL)
		return
	}
	size, err := strconv.Atoi(sizeParam)
	if err != nil || size <= 0 {
		size = config.THUMB_SIZE
	}
	if size > maxThumbSize {
		size = maxThumbSize
	}
	s, path, found := storage.StorageForURL(view.Photo.ImageURL)
	if !found {
		// Not in one of our buckets, the browser can scale it
		c.Redirect(http.StatusFound, view.Photo.ImageURL)
		return
	}
	var original bytes.Buffer
	if _, err = s.Load(c.Request.Context(), path, &original); err != nil {
		zap.L().Error("load image", zap.String("path", path), zap.Error(err))
		c.JSON(http.StatusInternalServerError, handlers.Response{Error: "could not load image"})
		return
	}
	var thumb bytes.Buffer
	if _, err = utils.CreateThumb(uint(size), &original, &thumb); err != nil {
		zap.L().Warn("create thumb", zap.String("path", path), zap.Error(err))
		c.Redirect(http.StatusFound, view.Photo.ImageURL)
		return
	}
	c.Header("cache-control", "public, max-age=3600")
	c.Data(http.StatusOK, "image/jpeg", thumb.Bytes())
}

func AuthorView(c *gin.Context) {
	c.HTML(http.StatusOK, "author.tmpl", gin.H{
		"maxUploadSize": config.MAX_UPLOAD_SIZE,
		"extensions":    annotation.ImageExtensions,
	})
}

func DisallowRobots(c *gin.Context) {
	c.String(http.StatusOK, "User-agent: *\nDisallow: /view/\n")
}
