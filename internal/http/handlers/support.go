package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/buildhub/homeowner-gateway/internal/http/handlers/common"
	"github.com/buildhub/homeowner-gateway/internal/models"
	"github.com/buildhub/homeowner-gateway/internal/service"
)

// SupportHandler serves support tickets, reviews and comment threads.
type SupportHandler struct {
	support *service.SupportService
}

func NewSupportHandler(support *service.SupportService) *SupportHandler {
	return &SupportHandler{support: support}
}

type createIssueRequest struct {
	Subject     string `json:"subject" binding:"required"`
	Description string `json:"description" binding:"required"`
	Category    string `json:"category"`
}

func (h *SupportHandler) CreateIssue(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	var req createIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "subject and description are required")
		return
	}
	if err := h.support.CreateIssue(c.Request.Context(), sess, req.Subject, req.Description, req.Category); err != nil {
		common.Error(c, err)
		return
	}
	common.OK(c, nil)
}

func (h *SupportHandler) Issues(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	issues, err := h.support.Issues(c.Request.Context(), sess)
	if err != nil {
		common.Error(c, err)
		return
	}
	common.OK(c, gin.H{"issues": issues})
}

func (h *SupportHandler) Reviews(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	targetID, err := strconv.ParseInt(c.Query("target_id"), 10, 64)
	if err != nil || targetID <= 0 {
		common.Fail(c, http.StatusBadRequest, "target_id is required")
		return
	}
	reviews, err := h.support.Reviews(c.Request.Context(), sess, targetID, c.Query("target_role"))
	if err != nil {
		common.Error(c, err)
		return
	}
	common.OK(c, gin.H{"reviews": reviews})
}

type postReviewRequest struct {
	TargetID   int64  `json:"target_id" binding:"required"`
	TargetRole string `json:"target_role" binding:"required"`
	Rating     int64  `json:"rating" binding:"required"`
	Comment    string `json:"comment"`
}

func (h *SupportHandler) PostReview(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	var req postReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "target_id, target_role and rating are required")
		return
	}
	review := models.Review{
		TargetID:   models.FlexInt(req.TargetID),
		TargetRole: req.TargetRole,
		Rating:     models.FlexInt(req.Rating),
		Comment:    req.Comment,
	}
	if err := h.support.PostReview(c.Request.Context(), sess, review); err != nil {
		common.Error(c, err)
		return
	}
	common.OK(c, nil)
}

func (h *SupportHandler) Comments(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	resourceID, err := strconv.ParseInt(c.Query("resource_id"), 10, 64)
	if err != nil || resourceID <= 0 {
		common.Fail(c, http.StatusBadRequest, "resource_id is required")
		return
	}
	comments, err := h.support.Comments(c.Request.Context(), sess, c.Query("kind"), resourceID)
	if err != nil {
		common.Error(c, err)
		return
	}
	common.OK(c, gin.H{"comments": comments})
}

type postCommentRequest struct {
	Kind       string `json:"kind" binding:"required"`
	ResourceID int64  `json:"resource_id" binding:"required"`
	Body       string `json:"body" binding:"required"`
}

func (h *SupportHandler) PostComment(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	var req postCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "kind, resource_id and body are required")
		return
	}
	if err := h.support.PostComment(c.Request.Context(), sess, req.Kind, req.ResourceID, req.Body); err != nil {
		common.Error(c, err)
		return
	}
	common.OK(c, nil)
}
