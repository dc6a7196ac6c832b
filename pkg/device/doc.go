// Package device drives one LAN865x MAC-PHY through a regio.Transport.
//
// A Device owns the serialized register I/O for the chip and implements:
//
//   - the enable/disable state machine on MAC_NCR (Open, Close)
//   - station address reprogramming with rollback (SetMACAddress)
//   - receive filter transitions on the multicast hash (SetRxMode), applied
//     by a single worker goroutine with latest-wins coalescing
//   - the probe-time register setup (Init)
//
// Every method is safe for concurrent use. Register accesses from Open,
// Close, SetMACAddress, the rx-mode worker and the locked view returned by
// Transport never interleave.
//
// Errors wrap the sentinels of this package and of regio. TornState and
// DeviceUnavailable end the device session: see IsFatal.
package device
