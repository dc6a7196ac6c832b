// Package persistence keeps runtime state across restarts in JSON files.
//
// The device daemon stores the committed station address and the debug
// gate, so a MAC set over the control channel survives a restart. The
// diagnostic tool stores the last device it talked to.
package persistence
