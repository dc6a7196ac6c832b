package device

import (
	"fmt"

	"github.com/t1s-tools/lan865x-go/pkg/hashfilter"
	"github.com/t1s-tools/lan865x-go/pkg/log"
	"github.com/t1s-tools/lan865x-go/pkg/reg"
	"github.com/t1s-tools/lan865x-go/pkg/regio"
)

// LowWord is the MAC_SAB1 encoding of a: bytes 0-3, byte 0 least significant.
func LowWord(a hashfilter.HardwareAddr) reg.Value {
	return reg.Value(a[3])<<24 | reg.Value(a[2])<<16 | reg.Value(a[1])<<8 | reg.Value(a[0])
}

// HighWord is the MAC_SAT1 encoding of a: bytes 4-5.
func HighWord(a hashfilter.HardwareAddr) reg.Value {
	return reg.Value(a[5])<<8 | reg.Value(a[4])
}

// programMAC writes next into specific address 1, low word first. If the
// high word fails the low word is restored from prev and the high word
// error is returned unchanged. If the restore fails too the result is a
// *TornStateError.
func programMAC(tr regio.Transport, next, prev hashfilter.HardwareAddr) error {
	if err := tr.WriteRegister(reg.MACSpecAddr1Bot, LowWord(next)); err != nil {
		return err
	}
	werr := tr.WriteRegister(reg.MACSpecAddr1Top, HighWord(next))
	if werr == nil {
		return nil
	}
	if rerr := tr.WriteRegister(reg.MACSpecAddr1Bot, LowWord(prev)); rerr != nil {
		return &TornStateError{Write: werr, Restore: rerr}
	}
	return werr
}

// ProgramMAC writes next with prev as the rollback target. It does not
// touch the committed address; use SetMACAddress for that.
func (d *Device) ProgramMAC(next, prev hashfilter.HardwareAddr) error {
	if err := d.lockIO(); err != nil {
		return err
	}
	defer d.ioMu.Unlock()
	return programMAC(d.tr, next, prev)
}

// SetMACAddress reprograms the station address. It is allowed in any link
// state and is a no-op when next equals the committed address. The
// committed address changes only on success, and changed reports whether
// this call changed it.
func (d *Device) SetMACAddress(next hashfilter.HardwareAddr) (changed bool, err error) {
	if d.isShutdown() {
		return false, ErrShutdown
	}
	if next.IsMulticast() || next == (hashfilter.HardwareAddr{}) {
		return false, fmt.Errorf("%w: %s is not a station address", hashfilter.ErrInvalidHardwareAddr, next)
	}

	if err := d.lockIO(); err != nil {
		return false, err
	}
	prev := d.mac
	if next == prev {
		d.ioMu.Unlock()
		return false, nil
	}
	err = programMAC(d.tr, next, prev)
	if err == nil {
		d.mac = next
	}
	d.ioMu.Unlock()

	if err != nil {
		d.logError("set mac address", err)
		d.debugLog("mac update failed", "from", prev, "to", next, "error", err)
		return false, err
	}
	d.logState(log.StateEntityMACAddress, prev.String(), next.String(), "")
	d.debugLog("mac address updated", "from", prev, "to", next)
	return true, nil
}

// MACAddress returns the committed station address.
func (d *Device) MACAddress() hashfilter.HardwareAddr {
	d.ioMu.Lock()
	defer d.ioMu.Unlock()
	return d.mac
}
