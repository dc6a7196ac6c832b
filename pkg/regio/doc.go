// Package regio moves 32-bit register reads and writes between software and
// a LAN865x MAC-PHY.
//
// Everything above this package talks to a Transport. Two implementations
// exist:
//
//   - Direct sits on a Bus, the hardware bus protocol library (OA-TC6 over
//     SPI on real hardware, or the simulator in package sim).
//   - Indirect reaches the registers of a device owned by another process
//     over the control channel. It checks the remote driver identity once,
//     when the channel is acquired.
//
// Logged decorates any Transport and records each access as a log.Event.
//
// No Transport retries. Failures are classified with errors.Is against
// ErrTransport, ErrIdentityMismatch and ErrUnsupported.
package regio
