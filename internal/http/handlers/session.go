package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/buildhub/homeowner-gateway/internal/http/handlers/common"
	"github.com/buildhub/homeowner-gateway/internal/http/middleware"
	"github.com/buildhub/homeowner-gateway/internal/models"
	"github.com/buildhub/homeowner-gateway/internal/service"
	"github.com/buildhub/homeowner-gateway/internal/upstream"
)

// sessionProbe verifies an upstream cookie actually authenticates.
type sessionProbe interface {
	MyRequests(ctx context.Context, sess upstream.Session) ([]models.LayoutRequest, error)
}

// SessionHandler exchanges the marketplace session cookie for a gateway
// access token and warms up the homeowner's stores.
type SessionHandler struct {
	probe     sessionProbe
	tokens    *service.TokenManager
	dashboard *service.DashboardService
}

func NewSessionHandler(probe sessionProbe, tokens *service.TokenManager, dashboard *service.DashboardService) *SessionHandler {
	return &SessionHandler{probe: probe, tokens: tokens, dashboard: dashboard}
}

type createSessionRequest struct {
	HomeownerID   int64  `json:"homeowner_id" binding:"required"`
	SessionCookie string `json:"session_cookie" binding:"required"`
}

// Create validates the upstream session and issues a gateway token.
func (h *SessionHandler) Create(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "homeowner_id and session_cookie are required")
		return
	}

	sess := upstream.Session{HomeownerID: req.HomeownerID, Cookie: req.SessionCookie}
	if _, err := h.probe.MyRequests(c.Request.Context(), sess); err != nil {
		common.Fail(c, http.StatusUnauthorized, "The marketplace session is not valid")
		return
	}

	token, err := h.tokens.NewAccess(req.HomeownerID, service.RoleHomeowner, req.SessionCookie)
	if err != nil {
		common.Error(c, err)
		return
	}

	h.dashboard.Open(c.Request.Context(), sess)

	common.OK(c, gin.H{"access_token": token})
}

// Delete tears the gateway session down and stops its pollers.
func (h *SessionHandler) Delete(c *gin.Context) {
	sess, ok := middleware.SessionFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}
	h.dashboard.Close(sess.HomeownerID)
	common.OK(c, nil)
}
