package transport

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/t1s-tools/lan865x-go/pkg/log"
)

// ClientConnection is what the indirect register transport needs from a
// control connection.
type ClientConnection interface {
	RemoteAddr() net.Addr
	Send(data []byte) error
	Receive(timeout time.Duration) ([]byte, error)
	Close() error
}

// ClientConfig configures Dial.
type ClientConfig struct {
	// MaxMessageSize defaults to DefaultMaxMessageSize.
	MaxMessageSize uint32

	// ConnectTimeout bounds the dial when ctx has no deadline (default 10s).
	ConnectTimeout time.Duration

	// Logger receives frame events.
	Logger log.Logger
}

const defaultConnectTimeout = 10 * time.Second

// Dial opens a control connection to a device.
func Dial(ctx context.Context, address string, config ClientConfig) (*ClientConn, error) {
	if _, ok := ctx.Deadline(); !ok {
		timeout := config.ConnectTimeout
		if timeout == 0 {
			timeout = defaultConnectTimeout
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var d net.Dialer
	nc, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", address, err)
	}

	c := &ClientConn{}
	c.init(nc, config.MaxMessageSize, uuid.NewString())
	if config.Logger != nil {
		c.framer.SetLogger(config.Logger, c.id, log.RoleTool)
	}
	return c, nil
}

// ClientConn is the tool end of a control connection. Receive calls are
// serialized; Send may run concurrently with them.
type ClientConn struct {
	framedConn
	recvMu sync.Mutex
}

var _ ClientConnection = (*ClientConn)(nil)

// SessionID identifies this connection in frame log events.
func (c *ClientConn) SessionID() string { return c.id }

// LocalAddr returns the local address.
func (c *ClientConn) LocalAddr() net.Addr { return c.nc.LocalAddr() }

// Receive returns the next message, waiting at most timeout. Zero waits
// until a message arrives or the connection closes.
func (c *ClientConn) Receive(timeout time.Duration) ([]byte, error) {
	c.recvMu.Lock()
	defer c.recvMu.Unlock()

	if c.isClosed() {
		return nil, ErrConnectionClosed
	}
	if timeout > 0 {
		_ = c.nc.SetReadDeadline(time.Now().Add(timeout))
		defer c.nc.SetReadDeadline(time.Time{})
	}
	return c.framer.ReadFrame()
}
