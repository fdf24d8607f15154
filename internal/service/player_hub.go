package service

import (
	"context"
	"encoding/json"
	"net/http"
	"portfolio_backend/pkg/logger"
	"portfolio_backend/pkg/monitoring"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	playersChannel = "players_channel"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// LocationHandler 处理客户端上报的位置
type LocationHandler func(uid string, x, y float64)

type PlayerClient struct {
	Hub     *PlayerHub
	Conn    *websocket.Conn
	Send    chan []byte
	UID     string
	Limiter *rate.Limiter
}

func (c *PlayerClient) readPump(onLocation LocationHandler) {
	defer func() {
		select {
		case c.Hub.unregister <- c:
		case <-c.Hub.done:
		}
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Error("WebSocket unexpected close", zap.Error(err), zap.String("uid", c.UID))
			}
			break
		}

		if !c.Limiter.Allow() {
			continue
		}

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil || msg.Type != "LOCATION" {
			continue
		}
		var loc struct {
			X float64 `json:"x"`
			Y float64 `json:"y"`
		}
		if err := json.Unmarshal(msg.Data, &loc); err != nil {
			continue
		}
		if onLocation != nil {
			onLocation(c.UID, loc.X, loc.Y)
		}
	}
}

func (c *PlayerClient) writePump() {
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

// PlayerHub 向所有在线连接广播玩家状态与位置；配置Redis时经由pub/sub跨实例分发
type PlayerHub struct {
	mu         sync.RWMutex
	clients    map[*PlayerClient]struct{}
	register   chan *PlayerClient
	unregister chan *PlayerClient
	Redis      *redis.Client
	OnLocation LocationHandler
	done       chan struct{}
	stopOnce   sync.Once
}

func NewPlayerHub(rdb *redis.Client) *PlayerHub {
	return &PlayerHub{
		clients:    make(map[*PlayerClient]struct{}),
		register:   make(chan *PlayerClient),
		unregister: make(chan *PlayerClient),
		Redis:      rdb,
		done:       make(chan struct{}),
	}
}

func (h *PlayerHub) Run() {
	if h.Redis != nil {
		pubsub := h.Redis.Subscribe(context.Background(), playersChannel)
		go func() {
			<-h.done
			pubsub.Close()
		}()
		go func() {
			for msg := range pubsub.Channel() {
				h.deliverLocal([]byte(msg.Payload))
			}
		}()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			h.mu.Unlock()
			monitoring.PlayersConnected.Inc()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				monitoring.PlayersConnected.Dec()
			}
			h.mu.Unlock()
		case <-h.done:
			return
		}
	}
}

func (h *PlayerHub) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)
		h.mu.Lock()
		for client := range h.clients {
			close(client.Send)
			delete(h.clients, client)
		}
		h.mu.Unlock()
		monitoring.PlayersConnected.Set(0)
		logger.Log.Info("PlayerHub stopped")
	})
}

// Broadcast 序列化一次后分发
func (h *PlayerHub) Broadcast(msgType string, data interface{}) {
	raw, err := json.Marshal(data)
	if err != nil {
		return
	}
	payload, err := json.Marshal(WSMessage{Type: msgType, Data: raw})
	if err != nil {
		return
	}

	if h.Redis != nil {
		if err := h.Redis.Publish(context.Background(), playersChannel, payload).Err(); err == nil {
			return
		}
	}
	h.deliverLocal(payload)
}

func (h *PlayerHub) deliverLocal(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.Send <- payload:
		default:
			// 发送缓冲已满的慢连接直接丢弃本条
		}
	}
}

func (h *PlayerHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeWS 升级连接并启动读写协程
func (h *PlayerHub) ServeWS(w http.ResponseWriter, r *http.Request, uid string) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	client := &PlayerClient{
		Hub:     h,
		Conn:    conn,
		Send:    make(chan []byte, 256),
		UID:     uid,
		Limiter: rate.NewLimiter(rate.Limit(20), 40),
	}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return nil
	}

	go client.writePump()
	go client.readPump(h.OnLocation)
	return nil
}
