package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tooltipper/annotation"
	"tooltipper/auth"
	"tooltipper/config"
)

func PhotoState(c *gin.Context, ws *auth.Workspace) {
	respondState(c, ws, nil)
}

func PhotoUpload(c *gin.Context, ws *auth.Workspace) {
	// Leave room for the multipart framing around the file
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, config.MAX_UPLOAD_SIZE+1<<20)
	file, err := c.FormFile("photo")
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		c.JSON(http.StatusBadRequest, Response{annotation.ErrTooLarge.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	reader, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{"cannot read upload"})
		return
	}
	defer reader.Close()
	// One byte over the limit is enough for the validator to refuse it
	data, err := io.ReadAll(io.LimitReader(reader, config.MAX_UPLOAD_SIZE+1))
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{"cannot read upload"})
		return
	}
	mimeType := file.Header.Get("content-type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = mime.TypeByExtension(filepath.Ext(file.Filename))
	}
	photo, err := ws.Session.Upload(c.Request.Context(), annotation.Upload{
		Name:     file.Filename,
		MimeType: mimeType,
		Data:     data,
	})
	if err == nil {
		zap.L().Info("photo uploaded", zap.Uint64("id", photo.ID), zap.String("short_id", photo.ShortID), zap.Int("size", len(data)))
	}
	respondState(c, ws, err)
}

func PhotoShare(c *gin.Context, ws *auth.Workspace) {
	photo, ok := ws.Session.Photo()
	if !ok {
		c.JSON(http.StatusConflict, Response{annotation.ErrNoPhoto.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"short_id": photo.ShortID,
		"url":      annotation.ShareURL(config.PUBLIC_ORIGIN, photo.ShortID),
	})
}

// PhotoLeave drops the workspace, the photo stays available to viewers.
// The next request of this browser starts a new workspace.
func PhotoLeave(c *gin.Context, ws *auth.Workspace) {
	auth.RemoveWorkspace(ws)
	auth.LoadSession(c).Forget()
	respondState(c, ws, nil)
}
