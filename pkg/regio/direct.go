package regio

import (
	"fmt"

	"github.com/t1s-tools/lan865x-go/pkg/reg"
)

// Direct is a Transport over the hardware bus.
type Direct struct {
	bus Bus
}

// NewDirect creates a Direct transport on bus.
func NewDirect(bus Bus) *Direct {
	return &Direct{bus: bus}
}

// ReadRegister reads addr. Bus failures match ErrTransport and keep the
// bus error in the chain.
func (d *Direct) ReadRegister(addr reg.Address) (reg.Value, error) {
	v, err := d.bus.ReadRegister(addr)
	if err != nil {
		return 0, fmt.Errorf("%w: read %s: %w", ErrTransport, addr, err)
	}
	return v, nil
}

// WriteRegister writes v to addr.
func (d *Direct) WriteRegister(addr reg.Address, v reg.Value) error {
	if err := d.bus.WriteRegister(addr, v); err != nil {
		return fmt.Errorf("%w: write %s=%s: %w", ErrTransport, addr, v, err)
	}
	return nil
}

var _ Transport = (*Direct)(nil)
