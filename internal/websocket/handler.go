package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/wfunc/last-crusade/internal/config"
	"github.com/wfunc/last-crusade/internal/middleware"
	"go.uber.org/zap"
)

// Handler 事件订阅的HTTP入口
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewHandler 创建事件订阅处理器
func NewHandler(hub *Hub, cfg *config.WebSocketConfig) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			// API Key已在中间件中校验
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeWS 升级连接并开始推送事件
func (h *Handler) ServeWS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.hub.logger.Warn("WebSocket升级失败", zap.Error(err))
		return
	}

	apiClient, _ := middleware.GetClient(c)
	client := NewClient(h.hub, conn, apiClient)
	if !h.hub.Register(client) {
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}
