package websocket

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// 错误定义
var (
	ErrClientNotFound = errors.New("客户端未找到")
	ErrSendBufferFull = errors.New("发送缓冲区已满")
)

const (
	// 写超时
	writeWait = 10 * time.Second

	// 读取pong超时
	pongWait = 60 * time.Second

	// ping发送周期，必须小于pongWait
	pingPeriod = (pongWait * 9) / 10

	// 客户端只发送订阅类的小消息
	maxMessageSize = 4 * 1024
)

// Client 事件订阅客户端
type Client struct {
	ID        string
	APIClient string
	Hub       *Hub
	Conn      *websocket.Conn
	Send      chan []byte

	// 订阅的事件前缀，为空表示全部
	filters   []string
	filtersMu sync.RWMutex
}

// subscribeRequest 订阅请求数据
type subscribeRequest struct {
	Events []string `json:"events"`
}

// NewClient 创建新客户端
func NewClient(hub *Hub, conn *websocket.Conn, apiClient string) *Client {
	return &Client{
		ID:        uuid.New().String(),
		APIClient: apiClient,
		Hub:       hub,
		Conn:      conn,
		Send:      make(chan []byte, 256),
	}
}

// wants 是否订阅了该事件
func (c *Client) wants(eventType string) bool {
	c.filtersMu.RLock()
	defer c.filtersMu.RUnlock()

	if len(c.filters) == 0 {
		return true
	}
	for _, prefix := range c.filters {
		if strings.HasPrefix(eventType, prefix) {
			return true
		}
	}
	return false
}

// ReadPump 读取消息
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Error("WebSocket读取错误",
					zap.String("client_id", c.ID),
					zap.Error(err))
			}
			return
		}

		if !c.handleMessage(message) {
			return
		}
	}
}

// WritePump 写入消息，每条消息一帧
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub关闭了通道
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage 处理客户端消息，返回false时断开连接
func (c *Client) handleMessage(data []byte) bool {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil || msg.Type == "" {
		c.Hub.logger.Warn("收到无效的WebSocket消息", zap.String("client_id", c.ID))
		c.sendError("消息格式错误")
		return false
	}

	switch msg.Type {
	case MessageTypePong:
		c.Hub.logger.Debug("收到pong", zap.String("client_id", c.ID))

	case MessageTypeSubscribe:
		var req subscribeRequest
		if len(msg.Data) > 0 {
			if err := json.Unmarshal(msg.Data, &req); err != nil {
				c.sendError("订阅格式错误")
				return true
			}
		}
		c.filtersMu.Lock()
		c.filters = req.Events
		c.filtersMu.Unlock()

		ack, _ := json.Marshal(req)
		c.Hub.SendToClient(c.ID, &Message{Type: MessageTypeSubscribed, Data: ack, Timestamp: time.Now().Unix()})

	default:
		c.sendError("不支持的消息类型: " + msg.Type)
	}
	return true
}

// sendError 发送错误消息
func (c *Client) sendError(message string) {
	data, _ := json.Marshal(map[string]string{"error": message})
	c.Hub.SendToClient(c.ID, &Message{
		Type:      MessageTypeError,
		Timestamp: time.Now().Unix(),
		Data:      data,
	})
}
