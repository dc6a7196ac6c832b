package wire

import (
	"errors"
	"fmt"
)

// Validation errors.
var (
	ErrZeroMessageID    = errors.New("messageId 0 is reserved")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrInvalidMAC       = errors.New("hardware address must be 6 bytes")
	ErrInvalidRxMode    = errors.New("invalid rx mode")
)

// Request is a control request from the tool to the device.
//
// CBOR encoding:
//
//	{
//	  1: messageId,   // uint32, non-zero
//	  2: operation,   // uint8
//	  3: address,     // uint32 (register ops)
//	  4: value,       // uint32 (WriteRegister)
//	  5: line,        // text (DebugWrite)
//	  6: enabled,     // bool (DebugEnable)
//	  7: mac,         // 6-byte string (SetMAC)
//	  8: rxMode,      // uint8 (SetRxMode)
//	  9: multicast    // array of 6-byte strings (SetRxMode, list mode)
//	}
type Request struct {
	MessageID uint32    `cbor:"1,keyasint"`
	Operation Operation `cbor:"2,keyasint"`
	Address   uint32    `cbor:"3,keyasint,omitempty"`
	Value     uint32    `cbor:"4,keyasint,omitempty"`
	Line      string    `cbor:"5,keyasint,omitempty"`
	Enabled   bool      `cbor:"6,keyasint,omitempty"`
	MAC       []byte    `cbor:"7,keyasint,omitempty"`
	RxMode    RxMode    `cbor:"8,keyasint,omitempty"`
	Multicast [][]byte  `cbor:"9,keyasint,omitempty"`
}

// Validate checks if the request is valid.
func (r *Request) Validate() error {
	if r.MessageID == 0 {
		return ErrZeroMessageID
	}
	if !r.Operation.IsValid() {
		return fmt.Errorf("%w: %d", ErrInvalidOperation, r.Operation)
	}
	switch r.Operation {
	case OpSetMAC:
		if len(r.MAC) != 6 {
			return ErrInvalidMAC
		}
	case OpSetRxMode:
		if !r.RxMode.IsValid() {
			return fmt.Errorf("%w: %d", ErrInvalidRxMode, r.RxMode)
		}
		for _, m := range r.Multicast {
			if len(m) != 6 {
				return ErrInvalidMAC
			}
		}
	}
	return nil
}

// Response is the device's answer to a Request.
//
// CBOR encoding:
//
//	{
//	  1: messageId,   // uint32, matches request
//	  2: status,      // uint8
//	  3: value,       // uint32 (ReadRegister)
//	  4: text,        // text (DebugRead, error detail)
//	  5: enabled,     // bool (DebugState)
//	  6: driver,      // text (Identify)
//	  7: version      // text (Identify)
//	}
type Response struct {
	MessageID uint32 `cbor:"1,keyasint"`
	Status    Status `cbor:"2,keyasint"`
	Value     uint32 `cbor:"3,keyasint,omitempty"`
	Text      string `cbor:"4,keyasint,omitempty"`
	Enabled   bool   `cbor:"5,keyasint,omitempty"`
	Driver    string `cbor:"6,keyasint,omitempty"`
	Version   string `cbor:"7,keyasint,omitempty"`
}

// IsSuccess returns true if the response indicates success.
func (r *Response) IsSuccess() bool {
	return r.Status.IsSuccess()
}

// Err returns nil for a successful response and a *StatusError otherwise.
func (r *Response) Err() error {
	if r.IsSuccess() {
		return nil
	}
	return &StatusError{Status: r.Status, Detail: r.Text}
}

// StatusError is a failed response surfaced as a Go error.
type StatusError struct {
	Status Status
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return e.Status.String()
	}
	return e.Status.String() + ": " + e.Detail
}
