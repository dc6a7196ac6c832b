// Package sim simulates the register file of a LAN865x MAC-PHY.
//
// A Chip satisfies regio.Bus, so the rest of the stack runs unchanged
// without hardware. Faults can be injected per register and direction to
// exercise the failure paths of the MAC update and enable/disable
// sequences.
package sim

import (
	"errors"
	"fmt"
	"sync"

	"github.com/t1s-tools/lan865x-go/pkg/hashfilter"
	"github.com/t1s-tools/lan865x-go/pkg/reg"
)

// ErrInjected is the default error returned by a Fault.
var ErrInjected = errors.New("injected bus fault")

// Op is the direction of an access.
type Op uint8

const (
	OpAny Op = iota
	OpRead
	OpWrite
)

// String returns the op name.
func (o Op) String() string {
	switch o {
	case OpRead:
		return "read"
	case OpWrite:
		return "write"
	default:
		return "any"
	}
}

// ParseOp parses "read", "write" or "any".
func ParseOp(s string) (Op, error) {
	switch s {
	case "read":
		return OpRead, nil
	case "write":
		return OpWrite, nil
	case "", "any":
		return OpAny, nil
	}
	return OpAny, fmt.Errorf("unknown access op %q", s)
}

// Access is one entry of the access history.
type Access struct {
	Op    Op
	Addr  reg.Address
	Value reg.Value
	Err   error
}

// Fault makes matching accesses fail.
type Fault struct {
	Op   Op
	Addr reg.Address

	// Skip lets this many matching accesses succeed before the fault fires.
	Skip int

	// Count is how many times the fault fires; 0 means forever.
	Count int

	// Err is returned by the failing access (default ErrInjected).
	Err error
}

func (f *Fault) matches(op Op, addr reg.Address) bool {
	return (f.Op == OpAny || f.Op == op) && f.Addr == addr
}

// Chip is a simulated register file. It is safe for concurrent use.
type Chip struct {
	mu      sync.Mutex
	regs    map[reg.Address]reg.Value
	faults  []*Fault
	history []Access
	hook    func(Access)
}

// Reset values of the registers the simulator models beyond zero.
var resetValues = map[reg.Address]reg.Value{
	reg.OAID:            0x00000011,
	reg.OAPHYID:         0x0007C1B3,
	reg.OASTDCAP:        0x00000D03,
	reg.OAStatus0:       reg.Value(reg.Status0ResetComplete),
	reg.PHYBasicStatus:  reg.Value(reg.BasicStatusExtCap | reg.BasicStatusLinkStatus),
	reg.PHYID1:          0x0007,
	reg.PHYID2:          0xC1B3,
	reg.MACTSUTimerIncr: 0,
}

var readOnly = map[reg.Address]bool{
	reg.OAID:     true,
	reg.OAPHYID:  true,
	reg.OASTDCAP: true,
	reg.PHYID1:   true,
	reg.PHYID2:   true,
}

// New returns a chip in its post-reset state.
func New() *Chip {
	c := &Chip{regs: make(map[reg.Address]reg.Value, len(resetValues))}
	for a, v := range resetValues {
		c.regs[a] = v
	}
	return c
}

// ReadRegister implements regio.Bus.
func (c *Chip) ReadRegister(addr reg.Address) (reg.Value, error) {
	c.mu.Lock()
	var v reg.Value
	err := c.fault(OpRead, addr)
	if err == nil {
		v = c.regs[addr]
	}
	a := Access{Op: OpRead, Addr: addr, Value: v, Err: err}
	c.history = append(c.history, a)
	hook := c.hook
	c.mu.Unlock()

	if hook != nil {
		hook(a)
	}
	return v, err
}

// WriteRegister implements regio.Bus. Writes to identification registers
// are ignored; STATUS0 is write-one-to-clear.
func (c *Chip) WriteRegister(addr reg.Address, v reg.Value) error {
	c.mu.Lock()
	err := c.fault(OpWrite, addr)
	if err == nil {
		switch {
		case readOnly[addr]:
		case addr == reg.OAStatus0:
			c.regs[addr] &^= v
		default:
			c.regs[addr] = v
		}
	}
	a := Access{Op: OpWrite, Addr: addr, Value: v, Err: err}
	c.history = append(c.history, a)
	hook := c.hook
	c.mu.Unlock()

	if hook != nil {
		hook(a)
	}
	return err
}

func (c *Chip) fault(op Op, addr reg.Address) error {
	for i, f := range c.faults {
		if !f.matches(op, addr) {
			continue
		}
		if f.Skip > 0 {
			f.Skip--
			continue
		}
		err := f.Err
		if err == nil {
			err = ErrInjected
		}
		if f.Count > 0 {
			f.Count--
			if f.Count == 0 {
				c.faults = append(c.faults[:i], c.faults[i+1:]...)
			}
		}
		return fmt.Errorf("%s %s: %w", op, addr, err)
	}
	return nil
}

// Inject adds a fault. Faults are checked in insertion order.
func (c *Chip) Inject(f Fault) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.faults = append(c.faults, &f)
}

// ClearFaults removes all faults.
func (c *Chip) ClearFaults() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.faults = nil
}

// SetHook installs fn to observe every access after it completes. fn runs
// without the chip lock held.
func (c *Chip) SetHook(fn func(Access)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hook = fn
}

// Peek returns a register value without faults or history.
func (c *Chip) Peek(addr reg.Address) reg.Value {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.regs[addr]
}

// Poke sets a register value without faults or history.
func (c *Chip) Poke(addr reg.Address, v reg.Value) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.regs[addr] = v
}

// History returns a copy of the access history.
func (c *Chip) History() []Access {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Access(nil), c.history...)
}

// Writes returns the successful writes in order.
func (c *Chip) Writes() []Access {
	var out []Access
	for _, a := range c.History() {
		if a.Op == OpWrite && a.Err == nil {
			out = append(out, a)
		}
	}
	return out
}

// ResetHistory clears the access history.
func (c *Chip) ResetHistory() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = nil
}

// StationAddr decodes the address programmed in specific address 1.
func (c *Chip) StationAddr() hashfilter.HardwareAddr {
	c.mu.Lock()
	lo := c.regs[reg.MACSpecAddr1Bot]
	hi := c.regs[reg.MACSpecAddr1Top]
	c.mu.Unlock()
	return hashfilter.HardwareAddr{
		byte(lo), byte(lo >> 8), byte(lo >> 16), byte(lo >> 24),
		byte(hi), byte(hi >> 8),
	}
}

// Filter returns the hash filter currently programmed.
func (c *Chip) Filter() hashfilter.Bitmap {
	c.mu.Lock()
	defer c.mu.Unlock()
	return hashfilter.Bitmap{Low: uint32(c.regs[reg.MACHashBottom]), High: uint32(c.regs[reg.MACHashTop])}
}
