package sim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t1s-tools/lan865x-go/pkg/hashfilter"
	"github.com/t1s-tools/lan865x-go/pkg/reg"
)

func TestResetState(t *testing.T) {
	c := New()
	v, err := c.ReadRegister(reg.OAID)
	require.NoError(t, err)
	assert.Equal(t, reg.Value(0x11), v)

	v, err = c.ReadRegister(reg.MACNetCtl)
	require.NoError(t, err)
	assert.Zero(t, v)
}

func TestReadOnlyAndW1C(t *testing.T) {
	c := New()
	require.NoError(t, c.WriteRegister(reg.OAID, 0xFF))
	assert.Equal(t, reg.Value(0x11), c.Peek(reg.OAID))

	c.Poke(reg.OAStatus0, 0x41)
	require.NoError(t, c.WriteRegister(reg.OAStatus0, 0x40))
	assert.Equal(t, reg.Value(0x01), c.Peek(reg.OAStatus0))
}

func TestFaultSkipAndCount(t *testing.T) {
	c := New()
	errCustom := errors.New("cs stuck")
	c.Inject(Fault{Op: OpWrite, Addr: reg.MACSpecAddr1Bot, Skip: 1, Count: 1, Err: errCustom})

	require.NoError(t, c.WriteRegister(reg.MACSpecAddr1Bot, 1))
	err := c.WriteRegister(reg.MACSpecAddr1Bot, 2)
	assert.ErrorIs(t, err, errCustom)
	require.NoError(t, c.WriteRegister(reg.MACSpecAddr1Bot, 3))
	assert.Equal(t, reg.Value(3), c.Peek(reg.MACSpecAddr1Bot))

	// Reads of the same register were never affected.
	_, err = c.ReadRegister(reg.MACSpecAddr1Bot)
	assert.NoError(t, err)
}

func TestFaultForever(t *testing.T) {
	c := New()
	c.Inject(Fault{Addr: reg.MACNetCtl})
	for i := 0; i < 3; i++ {
		_, err := c.ReadRegister(reg.MACNetCtl)
		assert.ErrorIs(t, err, ErrInjected)
	}
	c.ClearFaults()
	_, err := c.ReadRegister(reg.MACNetCtl)
	assert.NoError(t, err)
}

func TestHistoryAndHook(t *testing.T) {
	c := New()
	var seen []Access
	c.SetHook(func(a Access) { seen = append(seen, a) })

	_, _ = c.ReadRegister(reg.MACNetCtl)
	_ = c.WriteRegister(reg.MACNetCtl, 0x0C)

	h := c.History()
	require.Len(t, h, 2)
	assert.Equal(t, OpRead, h[0].Op)
	assert.Equal(t, Access{Op: OpWrite, Addr: reg.MACNetCtl, Value: 0x0C}, h[1])
	assert.Equal(t, h, seen)
	assert.Len(t, c.Writes(), 1)

	c.ResetHistory()
	assert.Empty(t, c.History())
}

func TestStationAddrAndFilter(t *testing.T) {
	c := New()
	c.Poke(reg.MACSpecAddr1Bot, 0x33221100)
	c.Poke(reg.MACSpecAddr1Top, 0x5544)
	assert.Equal(t, hashfilter.HardwareAddr{0x00, 0x11, 0x22, 0x33, 0x44, 0x55}, c.StationAddr())

	c.Poke(reg.MACHashBottom, 0x10)
	c.Poke(reg.MACHashTop, 0x00100000)
	assert.Equal(t, hashfilter.Bitmap{Low: 0x10, High: 0x00100000}, c.Filter())
}

func TestParseOp(t *testing.T) {
	for in, want := range map[string]Op{"read": OpRead, "write": OpWrite, "any": OpAny, "": OpAny} {
		got, err := ParseOp(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseOp("poke")
	assert.Error(t, err)
}
