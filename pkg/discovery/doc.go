// Package discovery advertises and finds LAN865x control channels over
// mDNS/DNS-SD.
//
// The device daemon registers one instance of _lan865x-ctl._tcp per
// device. The instance name is the device ID. TXT records carry:
//
//   - DI: device ID
//   - DRV: driver name reported by Identify
//   - VER: control protocol version
//   - MAC: committed station address (optional)
//   - RO: "1" when raw register ops are served, "0" otherwise
//
// The diagnostic tool browses for the service when no address is given
// and dials the first instance that matches.
package discovery
