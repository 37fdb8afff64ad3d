package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tooltipper/annotation"
	"tooltipper/auth"
	"tooltipper/config"
	"tooltipper/db"
	"tooltipper/models"
	"tooltipper/storage"
)

type Response struct {
	Error string `json:"error"`
}

// StateResponse is the author workspace as seen by the page
type StateResponse struct {
	Error    string               `json:"error"`
	State    annotation.State     `json:"state"`
	Photo    *annotation.Photo    `json:"photo"`
	ShareURL string               `json:"share_url,omitempty"`
	Tooltips []annotation.Tooltip `json:"tooltips"`
	Pending  *annotation.Pending  `json:"pending"`
}

// NewAnnotationSession creates the session of a new author workspace
func NewAnnotationSession() *annotation.Session {
	return annotation.NewSession(
		models.NewRepository(db.Instance),
		storage.DefaultBlobStore(),
		&annotation.ImageValidator{MaxSize: config.MAX_UPLOAD_SIZE, Extensions: annotation.ImageExtensions},
	)
}

func stateOf(ws *auth.Workspace) StateResponse {
	s := ws.Session
	result := StateResponse{
		State:    s.State(),
		Tooltips: s.Tooltips(),
	}
	if photo, ok := s.Photo(); ok {
		result.Photo = &photo
		result.ShareURL = annotation.ShareURL(config.PUBLIC_ORIGIN, photo.ShortID)
	}
	if pending, ok := s.Pending(); ok {
		result.Pending = &pending
	}
	return result
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, annotation.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, annotation.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, annotation.ErrNoPhoto),
		errors.Is(err, annotation.ErrPhotoLoaded),
		errors.Is(err, annotation.ErrPendingExists),
		errors.Is(err, annotation.ErrNoPending):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondState writes the workspace state, with err (if any) reported alongside it
func respondState(c *gin.Context, ws *auth.Workspace, err error) {
	state := stateOf(ws)
	if err == nil {
		c.JSON(http.StatusOK, state)
		return
	}
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		zap.L().Error("workspace operation", zap.String("path", c.FullPath()), zap.String("workspace", ws.ID), zap.Error(err))
	}
	state.Error = err.Error()
	c.JSON(status, state)
}
