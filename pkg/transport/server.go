package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/t1s-tools/lan865x-go/pkg/log"
)

// DefaultAddress is where the control channel listens when nothing else is
// configured. The channel carries raw register access, so loopback only.
const DefaultAddress = "127.0.0.1:8651"

// ErrServerRunning is returned by Start on a running server.
var ErrServerRunning = errors.New("server already running")

// ServerConfig configures a control channel server.
type ServerConfig struct {
	// Address to listen on, e.g. "127.0.0.1:8651" or ":0".
	Address string

	// MaxMessageSize defaults to DefaultMaxMessageSize.
	MaxMessageSize uint32

	// Logger receives frame and connection events.
	Logger log.Logger

	// Slog receives operational messages.
	Slog *slog.Logger

	OnConnect    func(conn *ServerConn)
	OnDisconnect func(conn *ServerConn)

	// OnMessage runs for each received frame. Calls for one connection
	// never overlap.
	OnMessage func(conn *ServerConn, msg []byte)

	// OnError reports accept failures (conn is nil) and broken
	// connections. Errors caused by Stop are not reported.
	OnError func(conn *ServerConn, err error)
}

// Server accepts control channel connections, one goroutine each.
type Server struct {
	cfg ServerConfig

	mu       sync.Mutex
	listener net.Listener // nil while stopped
	stopping chan struct{}
	conns    map[*ServerConn]struct{}

	wg sync.WaitGroup
}

// NewServer creates a stopped server.
func NewServer(config ServerConfig) *Server {
	if config.Address == "" {
		config.Address = DefaultAddress
	}
	if config.MaxMessageSize == 0 {
		config.MaxMessageSize = DefaultMaxMessageSize
	}
	return &Server{cfg: config, conns: make(map[*ServerConn]struct{})}
}

// Start binds the listen address and starts accepting. Cancelling ctx has
// the same effect as Stop.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return ErrServerRunning
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Address)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	s.listener = ln
	s.stopping = make(chan struct{})
	s.slog("control server listening", "addr", ln.Addr().String())

	s.wg.Add(1)
	go s.serve(ln, s.stopping)

	go func(stopping chan struct{}) {
		select {
		case <-ctx.Done():
			s.Stop()
		case <-stopping:
		}
	}(s.stopping)
	return nil
}

// Stop closes the listener and every open connection, then waits for the
// connection handlers to return. Stopping a stopped server is a no-op.
func (s *Server) Stop() error {
	s.mu.Lock()
	if s.listener == nil {
		s.mu.Unlock()
		return nil
	}
	close(s.stopping)
	s.listener.Close()
	s.listener = nil
	for c := range s.conns {
		c.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()
	s.slog("control server stopped")
	return nil
}

// Addr returns the bound address, or nil while stopped.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Port returns the bound TCP port, or 0 while stopped.
func (s *Server) Port() int {
	if tcp, ok := s.Addr().(*net.TCPAddr); ok {
		return tcp.Port
	}
	return 0
}

// ConnectionCount returns the number of open connections.
func (s *Server) ConnectionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

func (s *Server) serve(ln net.Listener, stopping <-chan struct{}) {
	defer s.wg.Done()
	for {
		nc, err := ln.Accept()
		if err != nil {
			select {
			case <-stopping:
				return
			default:
			}
			s.reportError(nil, fmt.Errorf("accept: %w", err))
			if errors.Is(err, net.ErrClosed) {
				return
			}
			continue
		}

		c := &ServerConn{}
		c.init(nc, s.cfg.MaxMessageSize, uuid.NewString())
		if !s.track(c) {
			nc.Close()
			return
		}
		s.wg.Add(1)
		go s.handle(c, stopping)
	}
}

// track registers c unless the server is already stopping.
func (s *Server) track(c *ServerConn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return false
	}
	s.conns[c] = struct{}{}
	return true
}

func (s *Server) handle(c *ServerConn, stopping <-chan struct{}) {
	defer s.wg.Done()

	if s.cfg.Logger != nil {
		c.framer.SetLogger(s.cfg.Logger, c.id, log.RoleDevice)
	}
	s.connEvent(c, "", "CONNECTED")
	s.slog("control connection opened", "conn", c.id, "remote", c.RemoteAddr().String())
	if s.cfg.OnConnect != nil {
		s.cfg.OnConnect(c)
	}

	for {
		msg, err := c.framer.ReadFrame()
		if err != nil {
			if !errors.Is(err, io.EOF) && !c.isClosed() {
				select {
				case <-stopping:
				default:
					s.reportError(c, err)
				}
			}
			break
		}
		if s.cfg.OnMessage != nil {
			s.cfg.OnMessage(c, msg)
		}
	}

	c.Close()
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()

	s.connEvent(c, "CONNECTED", "DISCONNECTED")
	s.slog("control connection closed", "conn", c.id)
	if s.cfg.OnDisconnect != nil {
		s.cfg.OnDisconnect(c)
	}
}

func (s *Server) reportError(c *ServerConn, err error) {
	if s.cfg.OnError != nil {
		s.cfg.OnError(c, err)
	}
}

func (s *Server) connEvent(c *ServerConn, from, to string) {
	if s.cfg.Logger == nil {
		return
	}
	s.cfg.Logger.Log(log.Event{
		Timestamp:  time.Now(),
		SessionID:  c.id,
		Layer:      log.LayerControl,
		Category:   log.CategoryState,
		LocalRole:  log.RoleDevice,
		RemoteAddr: c.RemoteAddr().String(),
		StateChange: &log.StateChangeEvent{
			Entity:   log.StateEntityConnection,
			OldState: from,
			NewState: to,
		},
	})
}

func (s *Server) slog(msg string, args ...any) {
	if s.cfg.Slog != nil {
		s.cfg.Slog.Debug(msg, args...)
	}
}

// ServerConn is the device end of one control connection.
type ServerConn struct {
	framedConn
}

// ConnID identifies the connection in logs and frame events.
func (c *ServerConn) ConnID() string { return c.id }
