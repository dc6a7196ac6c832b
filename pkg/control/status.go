package control

import (
	"context"
	"errors"
	"fmt"

	"github.com/t1s-tools/lan865x-go/pkg/device"
	"github.com/t1s-tools/lan865x-go/pkg/hashfilter"
	"github.com/t1s-tools/lan865x-go/pkg/regdebug"
	"github.com/t1s-tools/lan865x-go/pkg/regio"
	"github.com/t1s-tools/lan865x-go/pkg/wire"
)

// ErrRemote is matched by failures the device reported without a more
// specific kind.
var ErrRemote = errors.New("remote failure")

// StatusFor classifies err into a wire status. Order matters: an aborted
// Open matches both ErrDeviceUnavailable and ErrTransport and must report
// the former.
func StatusFor(err error) wire.Status {
	switch {
	case err == nil:
		return wire.StatusSuccess
	case errors.Is(err, device.ErrShutdown):
		return wire.StatusShutdown
	case errors.Is(err, device.ErrTornState):
		return wire.StatusTornState
	case errors.Is(err, device.ErrDeviceUnavailable):
		return wire.StatusDeviceUnavailable
	case errors.Is(err, regdebug.ErrPermissionDenied):
		return wire.StatusPermissionDenied
	case errors.Is(err, regdebug.ErrInvalidInput),
		errors.Is(err, hashfilter.ErrInvalidHardwareAddr),
		errors.Is(err, wire.ErrInvalidMAC),
		errors.Is(err, wire.ErrInvalidRxMode),
		errors.Is(err, wire.ErrInvalidOperation):
		return wire.StatusInvalidInput
	case errors.Is(err, regio.ErrUnsupported):
		return wire.StatusUnsupported
	case errors.Is(err, regio.ErrTransport):
		return wire.StatusTransport
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return wire.StatusTransport
	default:
		return wire.StatusInternal
	}
}

// sentinelFor is the inverse of StatusFor.
func sentinelFor(s wire.Status) error {
	switch s {
	case wire.StatusTransport:
		return regio.ErrTransport
	case wire.StatusUnsupported:
		return regio.ErrUnsupported
	case wire.StatusDeviceUnavailable:
		return device.ErrDeviceUnavailable
	case wire.StatusTornState:
		return device.ErrTornState
	case wire.StatusPermissionDenied:
		return regdebug.ErrPermissionDenied
	case wire.StatusInvalidInput:
		return regdebug.ErrInvalidInput
	case wire.StatusShutdown:
		return device.ErrShutdown
	default:
		return ErrRemote
	}
}

// ResponseErr converts a failed response into an error matching the
// sentinel of its status. The *wire.StatusError with the remote detail
// stays reachable through errors.As. A successful response yields nil.
func ResponseErr(resp *wire.Response) error {
	if resp.IsSuccess() {
		return nil
	}
	return fmt.Errorf("%w: %w", sentinelFor(resp.Status), resp.Err())
}
