package handlers

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/earngage/backend/internal/events"
	"github.com/earngage/backend/internal/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// wsClient serialises writes; a websocket.Conn allows one writer at a time.
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// WSHub pushes notification events to the connections of their recipient.
type WSHub struct {
	validator   middleware.TokenValidator
	subscriber  events.Subscriber
	log         *zap.Logger
	mu          sync.RWMutex
	connections map[string][]*wsClient
}

func NewWSHub(validator middleware.TokenValidator, subscriber events.Subscriber, log *zap.Logger) *WSHub {
	return &WSHub{
		validator:   validator,
		subscriber:  subscriber,
		log:         log,
		connections: make(map[string][]*wsClient),
	}
}

func (h *WSHub) Start(ctx context.Context) error {
	return h.subscriber.Subscribe(ctx, events.StreamNotifications, func(event events.Event) {
		userID := event.String("user_id")
		if userID == "" {
			return
		}
		h.SendToUser(userID, event)
	})
}

func (h *WSHub) SendToUser(userID string, event events.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.mu.RLock()
	clients := append([]*wsClient(nil), h.connections[userID]...)
	h.mu.RUnlock()

	for _, cl := range clients {
		if err := cl.write(data); err != nil {
			h.log.Debug("ws write failed", zap.String("user_id", userID), zap.Error(err))
		}
	}
}

// Connected returns how many sockets userID has open.
func (h *WSHub) Connected(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections[userID])
}

// WSUpgradeMiddleware checks for websocket upgrade
func WSUpgradeMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}

func (h *WSHub) HandleWS(conn *websocket.Conn) {
	tokenStr := conn.Query("token")
	if tokenStr == "" {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"missing token"}`))
		conn.Close()
		return
	}

	claims, err := h.validator.ValidateToken(context.Background(), tokenStr)
	if err != nil {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"invalid token"}`))
		conn.Close()
		return
	}

	userID := claims.UserID
	client := &wsClient{conn: conn}

	h.mu.Lock()
	h.connections[userID] = append(h.connections[userID], client)
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		clients := h.connections[userID]
		for i, cl := range clients {
			if cl == client {
				h.connections[userID] = append(clients[:i], clients[i+1:]...)
				break
			}
		}
		if len(h.connections[userID]) == 0 {
			delete(h.connections, userID)
		}
		h.mu.Unlock()
		conn.Close()
	}()

	// читаем до закрытия, входящие сообщения игнорируются
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
