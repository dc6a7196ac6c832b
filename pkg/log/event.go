package log

import "time"

// Event is a single log record captured at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies the device session or control connection.
	SessionID string `cbor:"2,keyasint"`

	// Direction is only meaningful for control frames.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event.
	Category Category `cbor:"5,keyasint"`

	// LocalRole is the side that wrote the event.
	LocalRole Role `cbor:"6,keyasint,omitempty"`

	// RemoteAddr is the control-channel peer (IP:port), if any.
	RemoteAddr string `cbor:"7,keyasint,omitempty"`

	// DeviceID names the MAC-PHY instance (e.g. "lan8651-0").
	DeviceID string `cbor:"8,keyasint,omitempty"`

	// Type-specific payload; exactly one is set.
	Access      *AccessEvent      `cbor:"10,keyasint,omitempty"`
	Frame       *FrameEvent       `cbor:"11,keyasint,omitempty"`
	StateChange *StateChangeEvent `cbor:"12,keyasint,omitempty"`
	Error       *ErrorEventData   `cbor:"13,keyasint,omitempty"`
}

// Direction of a control-channel frame.
type Direction uint8

const (
	DirectionIn  Direction = 0
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates where an event was captured.
type Layer uint8

const (
	// LayerRegister is the register transport (one event per access).
	LayerRegister Layer = 0
	// LayerControl is the control-channel framing.
	LayerControl Layer = 1
	// LayerDevice is the device state machine.
	LayerDevice Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerRegister:
		return "REGISTER"
	case LayerControl:
		return "CONTROL"
	case LayerDevice:
		return "DEVICE"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	CategoryAccess Category = 0
	CategoryFrame  Category = 1
	CategoryState  Category = 2
	CategoryError  Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryAccess:
		return "ACCESS"
	case CategoryFrame:
		return "FRAME"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Role is the side that produced the log.
type Role uint8

const (
	// RoleDevice is the process that owns the MAC-PHY.
	RoleDevice Role = 0
	// RoleTool is a diagnostic client using the indirect transport.
	RoleTool Role = 1
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleDevice:
		return "DEVICE"
	case RoleTool:
		return "TOOL"
	default:
		return "UNKNOWN"
	}
}

// AccessOp is the kind of register access.
type AccessOp uint8

const (
	AccessRead  AccessOp = 0
	AccessWrite AccessOp = 1
)

// String returns the access name.
func (o AccessOp) String() string {
	switch o {
	case AccessRead:
		return "READ"
	case AccessWrite:
		return "WRITE"
	default:
		return "UNKNOWN"
	}
}

// AccessEvent records one register read or write.
type AccessEvent struct {
	Op      AccessOp `cbor:"1,keyasint"`
	Address uint32   `cbor:"2,keyasint"`

	// Value read or written. Zero for a failed read.
	Value uint32 `cbor:"3,keyasint"`

	// Error is the failure text; empty on success.
	Error string `cbor:"4,keyasint,omitempty"`

	// Duration of the access in nanoseconds.
	Duration time.Duration `cbor:"5,keyasint,omitempty"`
}

// FrameEvent captures a raw control-channel frame.
type FrameEvent struct {
	// Size is the frame size in bytes including the length prefix.
	Size int `cbor:"1,keyasint"`

	// Data is the frame payload, truncated for large frames.
	Data []byte `cbor:"2,keyasint,omitempty"`

	Truncated bool `cbor:"3,keyasint,omitempty"`
}

// StateChangeEvent captures device lifecycle and filter mode changes.
type StateChangeEvent struct {
	Entity   StateEntity `cbor:"1,keyasint"`
	OldState string      `cbor:"2,keyasint,omitempty"`
	NewState string      `cbor:"3,keyasint"`
	Reason   string      `cbor:"4,keyasint,omitempty"`
}

// StateEntity indicates what changed state.
type StateEntity uint8

const (
	StateEntityLink       StateEntity = 0 // open/closed
	StateEntityRxMode     StateEntity = 1 // filter mode
	StateEntityMACAddress StateEntity = 2
	StateEntityDebug      StateEntity = 3 // debug gate
	StateEntityConnection StateEntity = 4
)

// String returns the entity name.
func (s StateEntity) String() string {
	switch s {
	case StateEntityLink:
		return "LINK"
	case StateEntityRxMode:
		return "RX_MODE"
	case StateEntityMACAddress:
		return "MAC_ADDRESS"
	case StateEntityDebug:
		return "DEBUG"
	case StateEntityConnection:
		return "CONNECTION"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	Layer   Layer  `cbor:"1,keyasint"`
	Message string `cbor:"2,keyasint"`

	// Kind is the error classification (e.g. "TORN_STATE").
	Kind string `cbor:"3,keyasint,omitempty"`

	// Context describes what operation was being performed.
	Context string `cbor:"4,keyasint,omitempty"`
}
