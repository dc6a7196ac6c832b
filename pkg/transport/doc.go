// Package transport carries the lan865x control channel.
//
// The channel is plain TCP with length-prefixed framing:
//
//	┌────────────────────────────────┐
//	│   CBOR messages (package wire) │
//	├────────────────────────────────┤
//	│   Length-prefix framing (4B)   │
//	├────────────────────────────────┤
//	│             TCP                │
//	└────────────────────────────────┘
//
// Server hands each received frame to a callback; calls for one connection
// are sequential, so requests from a single tool never interleave.
// Frames and connection state changes can be recorded to a log.Logger.
package transport
