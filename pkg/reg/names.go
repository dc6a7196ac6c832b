package reg

import (
	"fmt"
	"sort"
	"strings"
)

// registerNames maps datasheet register names to addresses.
var registerNames = map[string]Address{
	"OA_ID":      OAID,
	"OA_PHYID":   OAPHYID,
	"OA_STDCAP":  OASTDCAP,
	"OA_RESET":   OAReset,
	"OA_CONFIG0": OAConfig0,
	"OA_STATUS0": OAStatus0,
	"OA_STATUS1": OAStatus1,
	"OA_BUFSTS":  OABufSts,
	"OA_IMASK0":  OAIMask0,
	"OA_IMASK1":  OAIMask1,

	"TTSCAH": TTSCAH,
	"TTSCAL": TTSCAL,
	"TTSCBH": TTSCBH,
	"TTSCBL": TTSCBL,
	"TTSCCH": TTSCCH,
	"TTSCCL": TTSCCL,

	"BASIC_CONTROL": PHYBasicControl,
	"BASIC_STATUS":  PHYBasicStatus,
	"PHY_ID1":       PHYID1,
	"PHY_ID2":       PHYID2,
	"MMDCTRL":       PHYMMDCtrl,
	"MMDAD":         PHYMMDAddrData,

	"MAC_NCR":   MACNetCtl,
	"MAC_NCFGR": MACNetCfg,
	"MAC_HRB":   MACHashBottom,
	"MAC_HRT":   MACHashTop,
	"MAC_SAB1":  MACSpecAddr1Bot,
	"MAC_SAT1":  MACSpecAddr1Top,
	"MAC_SAB2":  MACSpecAddr2Bot,
	"MAC_SAT2":  MACSpecAddr2Top,
	"MAC_TI":    MACTSUTimerIncr,
	"BMGR_CTL":  BufMgrCtl,
	"STATS0":    Stats0,
	"STATS1":    Stats1,
	"STATS2":    Stats2,
}

// addressNames is the reverse of registerNames.
var addressNames = func() map[Address]string {
	m := make(map[Address]string, len(registerNames))
	for name, addr := range registerNames {
		m[addr] = name
	}
	return m
}()

// Lookup resolves a register name to its address (case-insensitive).
func Lookup(name string) (Address, bool) {
	addr, ok := registerNames[strings.ToUpper(strings.TrimSpace(name))]
	return addr, ok
}

// Name returns the register name for an address, or its hex form when the
// register is not in the table.
func Name(addr Address) string {
	if name, ok := addressNames[addr]; ok {
		return name
	}
	return fmt.Sprintf("0x%04X", uint32(addr))
}

// Known reports whether the address has a name.
func Known(addr Address) bool {
	_, ok := addressNames[addr]
	return ok
}

// Entry is a named register.
type Entry struct {
	Name    string
	Address Address
}

// List returns all named registers in the given bank sorted by address.
func List(bank Bank) []Entry {
	var out []Entry
	for name, addr := range registerNames {
		if addr.Bank() == bank {
			out = append(out, Entry{Name: name, Address: addr})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	return out
}

// Banks returns the banks that have at least one named register, in order.
func Banks() []Bank {
	seen := map[Bank]bool{}
	var out []Bank
	for _, addr := range registerNames {
		b := addr.Bank()
		if !seen[b] {
			seen[b] = true
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
