package wire

// Status represents a response status code. Each failure status mirrors one
// error kind of the register access core.
type Status uint8

const (
	// StatusSuccess indicates the operation completed successfully.
	StatusSuccess Status = 0

	// StatusTransport indicates the register bus failed.
	StatusTransport Status = 1

	// StatusUnsupported indicates the channel does not carry the operation.
	StatusUnsupported Status = 2

	// StatusDeviceUnavailable indicates an enable/disable transition aborted.
	StatusDeviceUnavailable Status = 3

	// StatusTornState indicates a MAC update left the address torn.
	StatusTornState Status = 4

	// StatusPermissionDenied indicates debug access while the gate is closed.
	StatusPermissionDenied Status = 5

	// StatusInvalidInput indicates a malformed request.
	StatusInvalidInput Status = 6

	// StatusShutdown indicates the device has been shut down.
	StatusShutdown Status = 7

	// StatusInternal indicates an unclassified failure.
	StatusInternal Status = 8
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "SUCCESS"
	case StatusTransport:
		return "TRANSPORT"
	case StatusUnsupported:
		return "UNSUPPORTED"
	case StatusDeviceUnavailable:
		return "DEVICE_UNAVAILABLE"
	case StatusTornState:
		return "TORN_STATE"
	case StatusPermissionDenied:
		return "PERMISSION_DENIED"
	case StatusInvalidInput:
		return "INVALID_INPUT"
	case StatusShutdown:
		return "SHUTDOWN"
	case StatusInternal:
		return "INTERNAL"
	default:
		return "UNKNOWN"
	}
}

// IsSuccess returns true if the status indicates success.
func (s Status) IsSuccess() bool {
	return s == StatusSuccess
}
