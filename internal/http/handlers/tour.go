package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/buildhub/homeowner-gateway/internal/http/handlers/common"
	"github.com/buildhub/homeowner-gateway/internal/service"
)

// TourHandler tracks onboarding tour completion.
type TourHandler struct {
	tours *service.TourService
}

func NewTourHandler(tours *service.TourService) *TourHandler {
	return &TourHandler{tours: tours}
}

func (h *TourHandler) Status(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	status, err := h.tours.Status(c.Request.Context(), sess.HomeownerID)
	if err != nil {
		common.Error(c, err)
		return
	}
	common.OK(c, gin.H{"tours": status})
}

type completeTourRequest struct {
	Tour string `json:"tour" binding:"required"`
}

func (h *TourHandler) Complete(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	var req completeTourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "tour is required")
		return
	}
	if err := h.tours.Complete(c.Request.Context(), sess.HomeownerID, req.Tour); err != nil {
		common.Error(c, err)
		return
	}
	common.OK(c, nil)
}
