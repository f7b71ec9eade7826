package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/buildhub/homeowner-gateway/internal/http/handlers/common"
	"github.com/buildhub/homeowner-gateway/internal/logger"
	"github.com/buildhub/homeowner-gateway/internal/ws"
)

// WSHandler upgrades dashboard connections for push updates.
type WSHandler struct {
	hub            *ws.Hub
	allowedOrigins map[string]bool
}

func NewWSHandler(hub *ws.Hub, allowedOrigins []string) *WSHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}
	return &WSHandler{hub: hub, allowedOrigins: allowed}
}

func (h *WSHandler) Connect(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || h.allowedOrigins[origin]
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Log.WithError(err).Warn("ws upgrade failed")
		common.Fail(c, http.StatusBadRequest, "websocket upgrade failed")
		return
	}

	ws.NewClient(h.hub, conn, sess.HomeownerID).Start()
}
