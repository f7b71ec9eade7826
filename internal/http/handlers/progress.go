package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/buildhub/homeowner-gateway/internal/http/handlers/common"
	"github.com/buildhub/homeowner-gateway/internal/service"
)

// ProgressHandler serves construction timelines.
type ProgressHandler struct {
	progress *service.ProgressService
}

func NewProgressHandler(progress *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progress: progress}
}

// Timeline returns the assembled event timeline with its stats.
func (h *ProgressHandler) Timeline(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	tl, err := h.progress.Timeline(c.Request.Context(), sess, projectID)
	if err != nil {
		common.Error(c, err)
		return
	}
	common.OK(c, gin.H{"timeline": tl})
}

// Updates returns the raw progress records and project summary.
func (h *ProgressHandler) Updates(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	updates, summary, err := h.progress.Updates(c.Request.Context(), sess, projectID)
	if err != nil {
		common.Error(c, err)
		return
	}
	common.OK(c, gin.H{"progress_updates": updates, "project_summary": summary})
}
