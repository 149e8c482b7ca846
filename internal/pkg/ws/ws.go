package ws

import (
	"context"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/inout-manager/realtime-go/internal/domain/realtime"
)

const handshakeTimeout = 10 * time.Second

// Dialer opens websocket channels to the gateway
type Dialer struct {
	dialer *websocket.Dialer
}

func NewDialer() *Dialer {
	return &Dialer{
		dialer: &websocket.Dialer{HandshakeTimeout: handshakeTimeout},
	}
}

func (d *Dialer) Dial(ctx context.Context, url string) (realtime.Channel, error) {
	conn, _, err := d.dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket dial failed: %w", err)
	}
	return &channel{conn: conn}, nil
}

// channel adapts a gorilla websocket connection to the realtime
// Channel port
type channel struct {
	conn *websocket.Conn
}

func (c *channel) ReadMessage() ([]byte, error) {
	_, raw, err := c.conn.ReadMessage()
	if err != nil {
		// The gateway rejects bad credentials with a policy violation close
		if websocket.IsCloseError(err, websocket.ClosePolicyViolation) {
			return nil, realtime.ErrAuthFailed
		}
		return nil, fmt.Errorf("%w: %v", realtime.ErrChannelClosed, err)
	}
	return raw, nil
}

func (c *channel) WriteJSON(v interface{}) error {
	return c.conn.WriteJSON(v)
}

func (c *channel) Close() error {
	return c.conn.Close()
}
