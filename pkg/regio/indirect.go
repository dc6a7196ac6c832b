package regio

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/t1s-tools/lan865x-go/pkg/log"
	"github.com/t1s-tools/lan865x-go/pkg/reg"
	"github.com/t1s-tools/lan865x-go/pkg/transport"
	"github.com/t1s-tools/lan865x-go/pkg/version"
	"github.com/t1s-tools/lan865x-go/pkg/wire"
)

// DefaultDriver is the driver name a LAN865x device reports.
const DefaultDriver = "lan865x"

// DefaultCallTimeout bounds one request/response exchange.
const DefaultCallTimeout = 5 * time.Second

// IndirectConfig configures an Indirect transport.
type IndirectConfig struct {
	// ExpectedDriver is compared with the identity the device reports
	// (default "lan865x").
	ExpectedDriver string

	// CallTimeout bounds each exchange (default 5s).
	CallTimeout time.Duration

	// Logger receives control frame events (optional).
	Logger log.Logger

	// Slog receives operational messages (optional).
	Slog *slog.Logger
}

// Identity is what the remote end reports about itself.
type Identity struct {
	Driver  string
	Version string
}

// Indirect is a Transport over the control channel.
type Indirect struct {
	conn     transport.ClientConnection
	config   IndirectConfig
	identity Identity

	mu     sync.Mutex
	nextID uint32
}

// DialIndirect connects to address and verifies the device identity.
func DialIndirect(ctx context.Context, address string, config IndirectConfig) (*Indirect, error) {
	conn, err := transport.Dial(ctx, address, transport.ClientConfig{Logger: config.Logger})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	return NewIndirect(conn, config)
}

// NewIndirect takes ownership of conn and runs the identity check. The
// check happens once here and never again for the life of the transport.
// On failure conn is closed.
func NewIndirect(conn transport.ClientConnection, config IndirectConfig) (*Indirect, error) {
	if config.ExpectedDriver == "" {
		config.ExpectedDriver = DefaultDriver
	}
	if config.CallTimeout == 0 {
		config.CallTimeout = DefaultCallTimeout
	}

	t := &Indirect{conn: conn, config: config}
	if err := t.identify(); err != nil {
		conn.Close()
		return nil, err
	}
	t.debugLog("indirect transport ready",
		"remote", conn.RemoteAddr(), "driver", t.identity.Driver, "version", t.identity.Version)
	return t, nil
}

func (t *Indirect) identify() error {
	resp, err := t.Call(&wire.Request{Operation: wire.OpIdentify})
	if err != nil {
		return err
	}
	switch resp.Status {
	case wire.StatusSuccess:
	case wire.StatusUnsupported:
		return fmt.Errorf("%w: identify", ErrUnsupported)
	default:
		return fmt.Errorf("%w: identify: %w", ErrTransport, resp.Err())
	}

	t.identity = Identity{Driver: resp.Driver, Version: resp.Version}
	if resp.Driver != t.config.ExpectedDriver {
		return fmt.Errorf("%w: driver %q, expected %q", ErrIdentityMismatch, resp.Driver, t.config.ExpectedDriver)
	}
	if !version.CompatibleWithCurrent(resp.Version) {
		return fmt.Errorf("%w: protocol version %q, expected %s", ErrIdentityMismatch, resp.Version, version.Current)
	}
	return nil
}

// Identity returns the identity reported at acquisition.
func (t *Indirect) Identity() Identity {
	return t.identity
}

// Call performs one request/response exchange. The MessageID is assigned
// here. A non-success status is returned in the response, not as an error;
// the error covers channel I/O and protocol violations only, and matches
// ErrTransport.
func (t *Indirect) Call(req *wire.Request) (*wire.Response, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.nextID++
	if t.nextID == 0 {
		t.nextID = 1
	}
	req.MessageID = t.nextID

	data, err := wire.EncodeRequest(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	if err := t.conn.Send(data); err != nil {
		return nil, fmt.Errorf("%w: send %s: %w", ErrTransport, req.Operation, err)
	}

	raw, err := t.conn.Receive(t.config.CallTimeout)
	if err != nil {
		return nil, fmt.Errorf("%w: receive %s: %w", ErrTransport, req.Operation, err)
	}
	resp, err := wire.DecodeResponse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	if resp.MessageID != req.MessageID {
		return nil, fmt.Errorf("%w: response id %d for request %d", ErrTransport, resp.MessageID, req.MessageID)
	}
	return resp, nil
}

// ReadRegister reads addr on the remote device.
func (t *Indirect) ReadRegister(addr reg.Address) (reg.Value, error) {
	resp, err := t.Call(&wire.Request{Operation: wire.OpReadRegister, Address: uint32(addr)})
	if err != nil {
		return 0, err
	}
	if err := registerStatus(resp, "read "+addr.String()); err != nil {
		return 0, err
	}
	return reg.Value(resp.Value), nil
}

// WriteRegister writes v to addr on the remote device.
func (t *Indirect) WriteRegister(addr reg.Address, v reg.Value) error {
	resp, err := t.Call(&wire.Request{Operation: wire.OpWriteRegister, Address: uint32(addr), Value: uint32(v)})
	if err != nil {
		return err
	}
	return registerStatus(resp, "write "+addr.String()+"="+v.String())
}

func registerStatus(resp *wire.Response, what string) error {
	switch resp.Status {
	case wire.StatusSuccess:
		return nil
	case wire.StatusUnsupported:
		return fmt.Errorf("%w: %s", ErrUnsupported, what)
	default:
		return fmt.Errorf("%w: %s: %w", ErrTransport, what, resp.Err())
	}
}

// Close releases the channel.
func (t *Indirect) Close() error {
	return t.conn.Close()
}

func (t *Indirect) debugLog(msg string, args ...any) {
	if t.config.Slog != nil {
		t.config.Slog.Debug(msg, args...)
	}
}

var _ Transport = (*Indirect)(nil)
