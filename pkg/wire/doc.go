// Package wire defines the CBOR wire format of the lan865x control channel.
//
// The control channel carries register access, debug introspection and
// device control requests between the diagnostic tool and the process that
// owns the MAC-PHY. Messages are CBOR (RFC 8949) maps with integer keys and
// travel as 4-byte big-endian length-prefixed frames (see package
// transport).
//
// # Message Types
//
//   - Request: tool to device. Carries an Operation plus its arguments.
//   - Response: device to tool. Carries a Status plus the result.
//
// Every request carries a non-zero MessageID that the response echoes.
package wire
