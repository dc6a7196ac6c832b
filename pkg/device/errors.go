package device

import (
	"errors"
	"fmt"
)

// Error kinds.
var (
	// ErrDeviceUnavailable means an enable/disable transition aborted and
	// the control register state is unknown.
	ErrDeviceUnavailable = errors.New("device unavailable")

	// ErrTornState means a MAC update failed and so did its rollback. The
	// station address registers hold a mix of old and new bytes.
	ErrTornState = errors.New("mac address torn")

	// ErrShutdown is returned by every operation after Shutdown.
	ErrShutdown = errors.New("device shut down")
)

// TornStateError carries both failures of a MAC update that could not be
// rolled back.
type TornStateError struct {
	// Write is the failed high word write.
	Write error
	// Restore is the failed low word restore.
	Restore error
}

func (e *TornStateError) Error() string {
	return fmt.Sprintf("%v: %v; restore failed: %v", ErrTornState, e.Write, e.Restore)
}

// Unwrap exposes ErrTornState and both causes to errors.Is and errors.As.
func (e *TornStateError) Unwrap() []error {
	return []error{ErrTornState, e.Write, e.Restore}
}

// IsFatal reports whether err should end the device session.
func IsFatal(err error) bool {
	return errors.Is(err, ErrTornState) || errors.Is(err, ErrDeviceUnavailable)
}
