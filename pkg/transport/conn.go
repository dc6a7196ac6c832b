package transport

import (
	"errors"
	"net"
	"sync"
)

// ErrConnectionClosed is returned for I/O on a closed connection.
var ErrConnectionClosed = errors.New("connection closed")

// framedConn is the part both ends of a control connection share: a TCP
// conn, its framer and a close latch.
type framedConn struct {
	nc     net.Conn
	framer *Framer
	id     string

	once   sync.Once
	closed chan struct{}
}

func (c *framedConn) init(nc net.Conn, maxSize uint32, id string) {
	c.nc = nc
	c.framer = NewFramer(nc, maxSize)
	c.id = id
	c.closed = make(chan struct{})
}

func (c *framedConn) isClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

// RemoteAddr returns the peer address.
func (c *framedConn) RemoteAddr() net.Addr { return c.nc.RemoteAddr() }

// Send writes one message.
func (c *framedConn) Send(data []byte) error {
	if c.isClosed() {
		return ErrConnectionClosed
	}
	return c.framer.WriteFrame(data)
}

// Close closes the connection. Further calls return nil.
func (c *framedConn) Close() error {
	err := error(nil)
	c.once.Do(func() {
		close(c.closed)
		err = c.nc.Close()
	})
	return err
}
