package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
	"github.com/rs/zerolog"
	"github.com/simaogato/cashil-backend/internal/domain"
)

// Hub pushes change events to every browser connected on the live endpoint
// Clients treat each message as "invalidate and reload".
type Hub struct {
	M   *melody.Melody
	log zerolog.Logger
}

// NewHub creates a Hub with keep-alive settings suitable for hosted proxies
func NewHub(log zerolog.Logger) *Hub {
	m := melody.New()
	m.Config.MaxMessageSize = 4 * 1024
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	h := &Hub{M: m, log: log}

	m.HandleConnect(func(s *melody.Session) {
		h.log.Debug().Str("remote", s.Request.RemoteAddr).Msg("live client connected")
	})
	m.HandleDisconnect(func(s *melody.Session) {
		h.log.Debug().Str("remote", s.Request.RemoteAddr).Msg("live client disconnected")
	})
	m.HandleError(func(s *melody.Session, err error) {
		h.log.Warn().Err(err).Msg("websocket error")
	})

	return h
}

// HandleWS upgrades the request to a websocket session
func (h *Hub) HandleWS(c *gin.Context) {
	if err := h.M.HandleRequest(c.Writer, c.Request); err != nil {
		h.log.Warn().Err(err).Msg("failed to upgrade websocket")
	}
}

// NotifyChange broadcasts the event as JSON to every session
func (h *Hub) NotifyChange(ctx context.Context, event domain.ChangeEvent) error {
	if h.M.IsClosed() {
		return nil
	}

	msg, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal change event: %w", err)
	}

	if err := h.M.Broadcast(msg); err != nil {
		return fmt.Errorf("failed to broadcast change event: %w", err)
	}
	return nil
}

// Sessions returns the number of connected clients
func (h *Hub) Sessions() int {
	return h.M.Len()
}

// Close disconnects every session
func (h *Hub) Close() error {
	return h.M.Close()
}
