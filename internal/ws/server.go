package ws

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"zaiqa-pos/internal/auth"
	"zaiqa-pos/internal/config"
	"zaiqa-pos/internal/order"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server fans kitchen tickets out to connected kitchen displays. Each
// display subscribes to a single branch; broadcasts to branches with no
// connected display are dropped.
type Server struct {
	Logger *zap.Logger
	Config config.Config

	mu   sync.RWMutex
	subs map[int64]map[*wsClient]struct{}
}

func New(logger *zap.Logger, cfg config.Config) *Server {
	return &Server{
		Logger: logger,
		Config: cfg,
		subs:   make(map[int64]map[*wsClient]struct{}),
	}
}

type wsClient struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *wsClient) writeJSON(value any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(value)
}

func (c *wsClient) ping() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(10*time.Second))
}

func (s *Server) subscribe(branchID int64, client *wsClient) (unsubscribe func()) {
	s.mu.Lock()
	if s.subs[branchID] == nil {
		s.subs[branchID] = make(map[*wsClient]struct{})
	}
	s.subs[branchID][client] = struct{}{}
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		clients := s.subs[branchID]
		delete(clients, client)
		if len(clients) == 0 {
			delete(s.subs, branchID)
		}
		s.mu.Unlock()
	}
}

// PublishTicket delivers a kitchen ticket to every display watching the
// ticket's branch.
func (s *Server) PublishTicket(_ context.Context, ticket order.KitchenTicket) error {
	s.mu.RLock()
	clientsMap := s.subs[ticket.BranchID]
	clients := make([]*wsClient, 0, len(clientsMap))
	for c := range clientsMap {
		clients = append(clients, c)
	}
	s.mu.RUnlock()

	for _, client := range clients {
		if err := client.writeJSON(map[string]any{"type": "kitchen.ticket", "data": ticket}); err != nil {
			s.Logger.Debug("kitchen feed write failed", zap.Error(err))
		}
	}
	return nil
}

// KitchenWS upgrades the connection and streams kitchen tickets for one
// branch. Auth is a staff token passed as a query parameter because
// browsers cannot set headers on websocket dials.
func (s *Server) KitchenWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	token := auth.ParseBearerToken(r.URL.Query().Get("token"))
	claims, err := auth.VerifyAccessToken(token, s.Config.JWTSecret)
	if err != nil || !claims.Role.CanTransitionOrders() {
		_ = conn.WriteJSON(map[string]any{"type": "error", "message": "unauthorized"})
		return
	}

	branchID := int64(0)
	if claims.BranchID != nil {
		branchID = *claims.BranchID
	}
	if raw := r.URL.Query().Get("branchId"); raw != "" {
		parsed, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr != nil || (claims.BranchID != nil && parsed != *claims.BranchID) {
			_ = conn.WriteJSON(map[string]any{"type": "error", "message": "invalid branch"})
			return
		}
		branchID = parsed
	}
	if branchID == 0 {
		_ = conn.WriteJSON(map[string]any{"type": "error", "message": "branch required"})
		return
	}

	client := &wsClient{conn: conn}
	unsubscribe := s.subscribe(branchID, client)
	defer unsubscribe()

	_ = client.writeJSON(map[string]any{"type": "kitchen.ready", "branchId": branchID})

	clientClosed := make(chan struct{})
	go func() {
		defer close(clientClosed)
		for {
			if _, _, readErr := conn.ReadMessage(); readErr != nil {
				return
			}
		}
	}()

	heartbeat := time.NewTicker(s.Config.WSHeartbeatInterval)
	defer heartbeat.Stop()

	ctx := r.Context()
	for {
		select {
		case <-clientClosed:
			return
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			if err := client.ping(); err != nil {
				return
			}
		}
	}
}
