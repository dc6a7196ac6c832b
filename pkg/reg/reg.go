package reg

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Address is a 32-bit register address: MMS in the upper half, register
// offset in the lower half.
type Address uint32

// Value is the 32-bit content of a register.
type Value uint32

// Bank identifies a register memory map (MMS).
type Bank uint16

const (
	// BankStandard holds the Open Alliance standard registers and the
	// clause 22 PHY registers mirrored at 0xFF00.
	BankStandard Bank = 0
	// BankMAC holds the MAC registers.
	BankMAC Bank = 1
	// BankPHYPCS holds the PHY PCS registers.
	BankPHYPCS Bank = 2
	// BankPHYPMA holds the PHY PMA/PMD registers.
	BankPHYPMA Bank = 3
	// BankPHYVendor holds the PHY vendor specific registers.
	BankPHYVendor Bank = 4
	// BankMisc holds miscellaneous chip registers.
	BankMisc Bank = 10
)

// String returns the bank name.
func (b Bank) String() string {
	switch b {
	case BankStandard:
		return "STANDARD"
	case BankMAC:
		return "MAC"
	case BankPHYPCS:
		return "PHY_PCS"
	case BankPHYPMA:
		return "PHY_PMA"
	case BankPHYVendor:
		return "PHY_VENDOR"
	case BankMisc:
		return "MISC"
	default:
		return "MMS" + strconv.Itoa(int(b))
	}
}

// NewAddress builds an address from a bank and a register offset.
func NewAddress(bank Bank, offset uint16) Address {
	return Address(uint32(bank)<<16 | uint32(offset))
}

// Bank returns the memory map the address belongs to.
func (a Address) Bank() Bank { return Bank(a >> 16) }

// Offset returns the register offset within the bank.
func (a Address) Offset() uint16 { return uint16(a) }

// IsPHY reports whether the address falls in the clause 22 PHY mirror of
// the standard bank.
func (a Address) IsPHY() bool {
	return a.Bank() == BankStandard && a.Offset() >= 0xFF00
}

// String formats the address the way the datasheet does.
func (a Address) String() string {
	return fmt.Sprintf("0x%08X", uint32(a))
}

// String formats the value as a zero padded hex word.
func (v Value) String() string {
	return fmt.Sprintf("0x%08X", uint32(v))
}

// Parse errors.
var (
	ErrEmptyInput   = errors.New("empty input")
	ErrInvalidValue = errors.New("invalid hex value")
)

// ParseHex parses a 32-bit hexadecimal word with an optional 0x prefix.
func ParseHex(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrEmptyInput
	}
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidValue, s)
	}
	return uint32(n), nil
}

// ParseAddress resolves a register name or a hex address.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if addr, ok := Lookup(s); ok {
		return addr, nil
	}
	n, err := ParseHex(s)
	if err != nil {
		return 0, fmt.Errorf("register address: %w", err)
	}
	return Address(n), nil
}

// ParseValue parses a register value. Unlike addresses, values accept both
// hex (0x prefix) and decimal, matching the diagnostic tool's behaviour.
func ParseValue(s string) (Value, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrEmptyInput
	}
	n, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidValue, s)
	}
	return Value(n), nil
}
