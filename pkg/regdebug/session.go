package regdebug

import (
	"sync"

	"github.com/t1s-tools/lan865x-go/pkg/reg"
)

// Session is the debug state of one device. It is safe for concurrent use.
type Session struct {
	mu        sync.Mutex
	enabled   bool
	lastAddr  reg.Address
	lastValue reg.Value
}

// NewSession returns a session with the gate set to enabled.
func NewSession(enabled bool) *Session {
	return &Session{enabled: enabled}
}

// SetEnabled opens or closes the gate and reports the previous setting.
func (s *Session) SetEnabled(enabled bool) (was bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	was, s.enabled = s.enabled, enabled
	return was
}

// Enabled reports whether debug access is allowed.
func (s *Session) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// Last returns the most recent successful access.
func (s *Session) Last() (reg.Address, reg.Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAddr, s.lastValue
}

func (s *Session) record(addr reg.Address, v reg.Value) {
	s.mu.Lock()
	s.lastAddr, s.lastValue = addr, v
	s.mu.Unlock()
}
