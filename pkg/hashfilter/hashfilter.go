// Package hashfilter implements the LAN865x 64-bucket multicast hash filter.
//
// The MAC folds each 48-bit destination address into a 6-bit bucket by
// XOR-ing every sixth bit together. A frame is accepted when the bit for its
// bucket is set in the 64-bit filter held in MAC_HRB (buckets 0-31) and
// MAC_HRT (buckets 32-63). The filter can report false positives but never
// false negatives.
package hashfilter

import (
	"errors"
	"fmt"
	"math/bits"
	"net"
)

// HardwareAddr is a 48-bit Ethernet hardware address.
type HardwareAddr [6]byte

// ErrInvalidHardwareAddr is returned for addresses that are not 6 bytes long.
var ErrInvalidHardwareAddr = errors.New("invalid hardware address")

// ParseHardwareAddr parses a colon or dash separated 48-bit address.
func ParseHardwareAddr(s string) (HardwareAddr, error) {
	mac, err := net.ParseMAC(s)
	if err != nil {
		return HardwareAddr{}, fmt.Errorf("%w: %v", ErrInvalidHardwareAddr, err)
	}
	return FromBytes(mac)
}

// FromBytes validates a byte slice as a hardware address.
func FromBytes(b []byte) (HardwareAddr, error) {
	var a HardwareAddr
	if len(b) != len(a) {
		return a, fmt.Errorf("%w: length %d", ErrInvalidHardwareAddr, len(b))
	}
	copy(a[:], b)
	return a, nil
}

// String formats the address as aa:bb:cc:dd:ee:ff.
func (a HardwareAddr) String() string {
	return net.HardwareAddr(a[:]).String()
}

// IsMulticast reports whether the group bit is set.
func (a HardwareAddr) IsMulticast() bool { return a[0]&1 != 0 }

// bit returns bit n of the address, counting from the LSB of byte 0.
func (a HardwareAddr) bit(n int) uint8 {
	return (a[n/8] >> (n % 8)) & 1
}

// Hash returns the filter bucket, in [0,63], for an address.
func Hash(a HardwareAddr) int {
	var bucket int
	for i := 0; i < 6; i++ {
		var x uint8
		for j := 0; j < 8; j++ {
			x ^= a.bit(j*6 + i)
		}
		bucket |= int(x) << i
	}
	return bucket
}

// Bitmap is the 64-bit hash filter split into its two registers.
type Bitmap struct {
	Low  uint32 // buckets 0-31, MAC_HRB
	High uint32 // buckets 32-63, MAC_HRT
}

// AllMulticast accepts every multicast frame.
var AllMulticast = Bitmap{Low: 0xFFFFFFFF, High: 0xFFFFFFFF}

// Set marks a bucket in the bitmap.
func (b *Bitmap) Set(bucket int) {
	if bucket < 32 {
		b.Low |= 1 << bucket
	} else {
		b.High |= 1 << (bucket - 32)
	}
}

// Has reports whether a bucket is set.
func (b Bitmap) Has(bucket int) bool {
	if bucket < 32 {
		return b.Low&(1<<bucket) != 0
	}
	return b.High&(1<<(bucket-32)) != 0
}

// Accepts reports whether the filter passes frames destined to a.
func (b Bitmap) Accepts(a HardwareAddr) bool { return b.Has(Hash(a)) }

// Count returns the number of set buckets.
func (b Bitmap) Count() int {
	return bits.OnesCount32(b.Low) + bits.OnesCount32(b.High)
}

// Buckets returns the set buckets in ascending order.
func (b Bitmap) Buckets() []int {
	out := make([]int, 0, b.Count())
	for i := 0; i < 64; i++ {
		if b.Has(i) {
			out = append(out, i)
		}
	}
	return out
}

// IsZero reports whether no bucket is set.
func (b Bitmap) IsZero() bool { return b.Low == 0 && b.High == 0 }

// String formats the bitmap as high:low hex words.
func (b Bitmap) String() string {
	return fmt.Sprintf("%08x:%08x", b.High, b.Low)
}

// Fold hashes every address into a single bitmap. The result does not depend
// on the order of addrs.
func Fold(addrs []HardwareAddr) Bitmap {
	var b Bitmap
	for _, a := range addrs {
		b.Set(Hash(a))
	}
	return b
}
