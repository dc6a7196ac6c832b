package control

import (
	"context"
	"sync"

	"github.com/t1s-tools/lan865x-go/pkg/transport"
	"github.com/t1s-tools/lan865x-go/pkg/wire"
)

// Server exposes a Handler on a control channel listener.
type Server struct {
	*transport.Server

	handler *Handler

	mu  sync.RWMutex
	ctx context.Context
}

// NewServer creates a server answering requests with handler. OnMessage in
// config is replaced; the other callbacks are kept.
func NewServer(handler *Handler, config transport.ServerConfig) *Server {
	s := &Server{handler: handler, ctx: context.Background()}
	config.OnMessage = s.onMessage
	s.Server = transport.NewServer(config)
	return s
}

// Start listens on the configured address. Requests run under ctx.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()
	return s.Server.Start(ctx)
}

func (s *Server) onMessage(conn *transport.ServerConn, data []byte) {
	var req wire.Request
	var resp *wire.Response
	if err := wire.Unmarshal(data, &req); err != nil {
		s.handler.debugLog("undecodable request", "conn", conn.ConnID(), "error", err)
		resp = &wire.Response{Status: wire.StatusInvalidInput, Text: "undecodable request"}
	} else {
		s.mu.RLock()
		ctx := s.ctx
		s.mu.RUnlock()
		resp = s.handler.HandleRequest(ctx, &req)
	}

	out, err := wire.EncodeResponse(resp)
	if err != nil {
		s.handler.debugLog("encode response failed", "conn", conn.ConnID(), "error", err)
		return
	}
	if err := conn.Send(out); err != nil {
		s.handler.debugLog("send response failed", "conn", conn.ConnID(), "error", err)
	}
}
