package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/inout-manager/realtime-go/internal/domain/activity"
	"github.com/inout-manager/realtime-go/internal/domain/realtime"
	"github.com/inout-manager/realtime-go/internal/handler/http/response"
	"github.com/inout-manager/realtime-go/internal/pkg/hub"
	"github.com/inout-manager/realtime-go/internal/pkg/jwt"
)

const (
	authDeadline = 10 * time.Second
	writeTimeout = 10 * time.Second
	pingInterval = 30 * time.Second
)

// RealtimeHandler serves the push channel and its polling fallback
type RealtimeHandler interface {
	ServeChannel(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
	RecentActivity(w http.ResponseWriter, r *http.Request)
}

type realtimeHandlerImpl struct {
	service    activity.Service
	hub        *hub.Hub
	jwtService jwt.Service
	upgrader   websocket.Upgrader
	logger     *slog.Logger
}

func NewRealtimeHandler(service activity.Service, h *hub.Hub, jwtService jwt.Service, logger *slog.Logger) RealtimeHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &realtimeHandlerImpl{
		service:    service,
		hub:        h,
		jwtService: jwtService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Browsers cannot set Authorization headers on websockets;
			// authentication happens in-band with the first message
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// ServeChannel handles GET /ws/admin. The first client message must be
// {type:"auth", token}; anything else closes the socket with a policy
// violation so clients can tell credential failures from drops.
func (h *realtimeHandlerImpl) ServeChannel(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	if err := h.authenticate(conn); err != nil {
		h.logger.Warn("channel authentication failed", slog.String("error", err.Error()))
		deadline := time.Now().Add(writeTimeout)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "authentication failed"),
			deadline)
		return
	}

	frames, cleanup := h.hub.Subscribe()
	defer cleanup()

	// Drain client frames so pongs and close messages are processed
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case frame, ok := <-frames:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *realtimeHandlerImpl) authenticate(conn *websocket.Conn) error {
	_ = conn.SetReadDeadline(time.Now().Add(authDeadline))
	defer conn.SetReadDeadline(time.Time{})

	_, raw, err := conn.ReadMessage()
	if err != nil {
		return err
	}

	var msg realtime.AuthMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return jwt.ErrInvalidToken
	}
	if msg.Type != realtime.MessageAuth {
		return jwt.ErrInvalidToken
	}

	_, err = h.jwtService.ValidateToken(msg.Token)
	return err
}

// Stats handles GET /realtime/stats (polling fallback)
func (h *realtimeHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.CurrentStats(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// RecentActivity handles GET /activity/recent (polling fallback)
func (h *realtimeHandlerImpl) RecentActivity(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Recent(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
