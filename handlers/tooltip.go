package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"tooltipper/annotation"
	"tooltipper/auth"
)

type TooltipPlaceRequest struct {
	PointerX float64           `json:"pointer_x"`
	PointerY float64           `json:"pointer_y"`
	Bounds   annotation.Bounds `json:"bounds"`
}

type TooltipIDRequest struct {
	ID uint64 `json:"id" binding:"required"`
}

type TooltipTextRequest struct {
	Text string `json:"text"`
}

type PlaceResponse struct {
	StateResponse
	Placed bool `json:"placed"`
}

func TooltipPlace(c *gin.Context, ws *auth.Workspace) {
	r := TooltipPlaceRequest{}
	if err := c.ShouldBindWith(&r, binding.JSON); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	_, err := ws.Session.Place(r.PointerX, r.PointerY, r.Bounds)
	if errors.Is(err, annotation.ErrOutOfBounds) {
		// Clicks just outside the image are expected, nothing to report
		c.JSON(http.StatusOK, PlaceResponse{StateResponse: stateOf(ws)})
		return
	}
	if err != nil {
		respondState(c, ws, err)
		return
	}
	c.JSON(http.StatusOK, PlaceResponse{StateResponse: stateOf(ws), Placed: true})
}

// TooltipEdit deletes the tooltip and opens it as the pending one
func TooltipEdit(c *gin.Context, ws *auth.Workspace) {
	r := TooltipIDRequest{}
	if err := c.ShouldBindWith(&r, binding.JSON); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	_, err := ws.Session.Edit(c.Request.Context(), r.ID)
	if err == nil {
		notifyChanged(ws)
	}
	respondState(c, ws, err)
}

func TooltipText(c *gin.Context, ws *auth.Workspace) {
	r := TooltipTextRequest{}
	if err := c.ShouldBindWith(&r, binding.JSON); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	_, err := ws.Session.SetText(r.Text)
	respondState(c, ws, err)
}

func TooltipSave(c *gin.Context, ws *auth.Workspace) {
	r := TooltipTextRequest{}
	if err := c.ShouldBindWith(&r, binding.JSON); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	_, err := ws.Session.Submit(c.Request.Context(), r.Text)
	if err == nil {
		notifyChanged(ws)
	}
	respondState(c, ws, err)
}

func TooltipCancel(c *gin.Context, ws *auth.Workspace) {
	_, err := ws.Session.Cancel()
	respondState(c, ws, err)
}

func TooltipDelete(c *gin.Context, ws *auth.Workspace) {
	r := TooltipIDRequest{}
	if err := c.ShouldBindWith(&r, binding.JSON); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	err := ws.Session.Delete(c.Request.Context(), r.ID)
	if err == nil {
		notifyChanged(ws)
	}
	respondState(c, ws, err)
}
