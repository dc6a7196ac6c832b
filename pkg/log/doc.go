// Package log provides structured register-access logging for lan865x-go.
//
// This package defines the Logger interface and Event types for capturing
// what happens between software and the MAC-PHY at several layers: raw
// register reads and writes, control-channel frames, and device state
// changes. It is separate from operational logging (slog). The event trace
// is machine-readable and meant for post-mortem analysis of a device
// session, for example to find out which write left a MAC address torn.
//
// # Basic Usage
//
//	// For development: log to console via slog
//	logger := log.NewSlogAdapter(slog.Default())
//
//	// For production: append to a binary file
//	logger, _ := log.NewFileLogger("/var/log/lan865x/device.rlog")
//
//	// Both
//	logger := log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # Event Types
//
//   - Register: one register read or write (AccessEvent)
//   - Control: one control-channel frame (FrameEvent)
//   - Device: enable/disable and filter mode transitions (StateChangeEvent)
//
// Errors at any layer carry an ErrorEventData payload.
//
// # File Format
//
// Log files are a plain concatenation of CBOR-encoded events with the .rlog
// extension. The lan865x-log command views them and prints statistics.
package log
