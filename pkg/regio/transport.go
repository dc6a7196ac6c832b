package regio

import (
	"errors"

	"github.com/t1s-tools/lan865x-go/pkg/reg"
)

// Error kinds.
var (
	// ErrTransport means the bus or channel I/O failed.
	ErrTransport = errors.New("register transport failure")

	// ErrIdentityMismatch means the indirect channel reached a device run by
	// a different driver.
	ErrIdentityMismatch = errors.New("device identity mismatch")

	// ErrUnsupported means the channel does not carry register operations.
	ErrUnsupported = errors.New("register operations not supported by channel")
)

// Transport reads and writes device registers. Implementations are not safe
// for concurrent use on one device; callers serialize access.
type Transport interface {
	ReadRegister(addr reg.Address) (reg.Value, error)
	WriteRegister(addr reg.Address, v reg.Value) error
}

// Bus is the contract of the hardware bus protocol library. It has the same
// shape as Transport but its errors are raw bus errors.
type Bus interface {
	ReadRegister(addr reg.Address) (reg.Value, error)
	WriteRegister(addr reg.Address, v reg.Value) error
}
