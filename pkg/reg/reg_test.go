package reg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressBank(t *testing.T) {
	tests := []struct {
		name   string
		addr   Address
		bank   Bank
		offset uint16
		phy    bool
	}{
		{"oa id", OAID, BankStandard, 0x0000, false},
		{"basic control", PHYBasicControl, BankStandard, 0xFF00, true},
		{"net ctl", MACNetCtl, BankMAC, 0x0000, false},
		{"hash top", MACHashTop, BankMAC, 0x0021, false},
		{"built", NewAddress(BankPHYVendor, 0x00CA), BankPHYVendor, 0x00CA, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.bank, tt.addr.Bank())
			assert.Equal(t, tt.offset, tt.addr.Offset())
			assert.Equal(t, tt.phy, tt.addr.IsPHY())
		})
	}
}

func TestBankString(t *testing.T) {
	assert.Equal(t, "MAC", BankMAC.String())
	assert.Equal(t, "STANDARD", BankStandard.String())
	assert.Equal(t, "MMS7", Bank(7).String())
}

func TestParseAddress(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Address
		wantErr bool
	}{
		{"hex with prefix", "0x10000", MACNetCtl, false},
		{"hex without prefix", "10001", MACNetCfg, false},
		{"upper prefix", "0X10020", MACHashBottom, false},
		{"register name", "mac_ncr", MACNetCtl, false},
		{"register name padded", "  OA_STATUS0 ", OAStatus0, false},
		{"garbage", "zz", 0, true},
		{"empty", "", 0, true},
		{"too wide", "0x100000000", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAddress(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseValue(t *testing.T) {
	v, err := ParseValue("0x0C")
	require.NoError(t, err)
	assert.Equal(t, Value(0x0C), v)

	v, err = ParseValue("12")
	require.NoError(t, err)
	assert.Equal(t, Value(12), v)

	_, err = ParseValue("nope")
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestNameRoundTrip(t *testing.T) {
	for _, bank := range Banks() {
		for _, e := range List(bank) {
			addr, ok := Lookup(e.Name)
			require.True(t, ok, e.Name)
			assert.Equal(t, e.Address, addr)
			assert.Equal(t, e.Name, Name(addr))
		}
	}
	assert.Equal(t, "0x1234", Name(0x1234))
	assert.False(t, Known(0x1234))
}

func TestListSortedByAddress(t *testing.T) {
	entries := List(BankMAC)
	require.NotEmpty(t, entries)
	assert.Equal(t, "MAC_NCR", entries[0].Name)
	for i := 1; i < len(entries); i++ {
		assert.Less(t, entries[i-1].Address, entries[i].Address)
	}
}

func TestDecode(t *testing.T) {
	bits, ok := Decode(MACNetCtl, Value(NetCtlTxRx))
	require.True(t, ok)
	assert.Equal(t, []string{"TXEN", "RXEN"}, bits)

	bits, ok = Decode(OAStatus0, Value(Status0ResetComplete|Status0TxProtocolErr))
	require.True(t, ok)
	assert.Equal(t, []string{"RESETC", "TXPE"}, bits)

	bits, ok = Decode(PHYBasicStatus, 0)
	require.True(t, ok)
	assert.Empty(t, bits)

	_, ok = Decode(MACHashTop, 0xFFFFFFFF)
	assert.False(t, ok)
}

func TestNetCtlEnabled(t *testing.T) {
	assert.True(t, NetCtlTxRx.Enabled())
	assert.False(t, NetCtlTxEnable.Enabled())
	assert.False(t, NetCtl(0).Enabled())
}
