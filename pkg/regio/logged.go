package regio

import (
	"time"

	"github.com/t1s-tools/lan865x-go/pkg/log"
	"github.com/t1s-tools/lan865x-go/pkg/reg"
)

// Logged records every access of the wrapped Transport.
type Logged struct {
	next      Transport
	logger    log.Logger
	sessionID string
	deviceID  string
	role      log.Role
}

// LoggedOption configures a Logged transport.
type LoggedOption func(*Logged)

// WithSession sets the session ID stamped on events.
func WithSession(id string) LoggedOption {
	return func(l *Logged) { l.sessionID = id }
}

// WithDeviceID sets the device ID stamped on events.
func WithDeviceID(id string) LoggedOption {
	return func(l *Logged) { l.deviceID = id }
}

// WithRole sets which side produced the events (default log.RoleDevice).
func WithRole(r log.Role) LoggedOption {
	return func(l *Logged) { l.role = r }
}

// NewLogged wraps next. A nil logger returns next unchanged.
func NewLogged(next Transport, logger log.Logger, opts ...LoggedOption) Transport {
	if logger == nil {
		return next
	}
	l := &Logged{next: next, logger: logger}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ReadRegister reads through the wrapped transport and logs the result.
func (l *Logged) ReadRegister(addr reg.Address) (reg.Value, error) {
	start := time.Now()
	v, err := l.next.ReadRegister(addr)
	l.emit(log.AccessRead, addr, v, err, start)
	return v, err
}

// WriteRegister writes through the wrapped transport and logs the result.
func (l *Logged) WriteRegister(addr reg.Address, v reg.Value) error {
	start := time.Now()
	err := l.next.WriteRegister(addr, v)
	l.emit(log.AccessWrite, addr, v, err, start)
	return err
}

func (l *Logged) emit(op log.AccessOp, addr reg.Address, v reg.Value, err error, start time.Time) {
	access := &log.AccessEvent{
		Op:       op,
		Address:  uint32(addr),
		Value:    uint32(v),
		Duration: time.Since(start),
	}
	if err != nil {
		access.Error = err.Error()
	}
	l.logger.Log(log.Event{
		Timestamp: start,
		SessionID: l.sessionID,
		Layer:     log.LayerRegister,
		Category:  log.CategoryAccess,
		LocalRole: l.role,
		DeviceID:  l.deviceID,
		Access:    access,
	})
}

var _ Transport = (*Logged)(nil)
