package regdebug

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t1s-tools/lan865x-go/pkg/log"
	"github.com/t1s-tools/lan865x-go/pkg/reg"
	"github.com/t1s-tools/lan865x-go/pkg/regio"
	"github.com/t1s-tools/lan865x-go/pkg/regio/mocks"
	"github.com/t1s-tools/lan865x-go/pkg/sim"
)

func newSimHandler(enabled bool) (*Handler, *sim.Chip) {
	chip := sim.New()
	return NewHandler(regio.NewDirect(chip), NewSession(enabled)), chip
}

func TestDisabledGateDoesNoIO(t *testing.T) {
	tr := mocks.NewMockTransport(t) // any call fails the test
	h := NewHandler(tr, NewSession(false))

	assert.ErrorIs(t, h.Write("10 20"), ErrPermissionDenied)
	assert.ErrorIs(t, h.Write("10"), ErrPermissionDenied)

	text, err := h.Read()
	require.NoError(t, err)
	assert.Equal(t, "Debug disabled. Enable via echo 1 > debug_enable\n", text)
}

func TestWriteRecordsLastAccess(t *testing.T) {
	h, chip := newSimHandler(true)

	require.NoError(t, h.Write("10 20"))
	addr, v := h.Session().Last()
	assert.Equal(t, reg.Address(0x10), addr)
	assert.Equal(t, reg.Value(0x20), v)
	assert.Equal(t, reg.Value(0x20), chip.Peek(0x10))

	chip.Poke(reg.MACNetCfg, 0xC0)
	require.NoError(t, h.Write("0x00010001\n"))
	addr, v = h.Session().Last()
	assert.Equal(t, reg.MACNetCfg, addr)
	assert.Equal(t, reg.Value(0xC0), v)
}

func TestWriteInvalidInput(t *testing.T) {
	tests := []string{
		"zz",
		"",
		"   ",
		"10 zz",
		"10 20 30",
		"0x1ffffffff",
		"10 " + strings.Repeat("0", 70),
	}
	for _, line := range tests {
		t.Run(line, func(t *testing.T) {
			h, chip := newSimHandler(true)
			err := h.Write(line)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Empty(t, chip.History())
			addr, v := h.Session().Last()
			assert.Zero(t, addr)
			assert.Zero(t, v)
		})
	}
}

func TestWriteTransportErrorKeepsLastAccess(t *testing.T) {
	h, chip := newSimHandler(true)
	require.NoError(t, h.Write("10 20"))

	chip.Inject(sim.Fault{Op: sim.OpAny, Addr: 0x30})
	err := h.Write("30 40")
	require.Error(t, err)
	assert.ErrorIs(t, err, regio.ErrTransport)
	assert.NotErrorIs(t, err, ErrInvalidInput)

	err = h.Write("30")
	assert.ErrorIs(t, err, sim.ErrInjected)

	addr, v := h.Session().Last()
	assert.Equal(t, reg.Address(0x10), addr)
	assert.Equal(t, reg.Value(0x20), v)
}

func TestWriteReturnsTransportErrorUnchanged(t *testing.T) {
	boom := errors.New("boom")
	tr := mocks.NewMockTransport(t)
	tr.EXPECT().WriteRegister(reg.Address(0x10), reg.Value(0x20)).Return(boom).Once()

	h := NewHandler(tr, NewSession(true))
	assert.Same(t, boom, h.Write("10 20"))
}

func TestReadStatusBlock(t *testing.T) {
	h, chip := newSimHandler(true)
	chip.Poke(reg.MACNetCtl, 0x0C)
	require.NoError(t, h.Write("10 20"))

	text, err := h.Read()
	require.NoError(t, err)
	assert.Equal(t, "=== LAN865x Register Debug Info ===\n"+
		"MAC_NCR (0x00010000): 0x0000000c\n"+
		"  TX_EN: ON\n"+
		"  RX_EN: ON\n"+
		"Last accessed: addr=0x00000010, val=0x00000020\n"+
		"Debug enabled: YES\n\n"+
		"Usage: echo 'addr value' > regs  # Write register\n"+
		"       echo 'addr' > regs        # Read register\n", text)

	chip.Poke(reg.MACNetCtl, 0x08)
	text, err = h.Read()
	require.NoError(t, err)
	assert.Contains(t, text, "  TX_EN: ON\n  RX_EN: OFF\n")
}

func TestReadError(t *testing.T) {
	tr := mocks.NewMockTransport(t)
	tr.EXPECT().ReadRegister(reg.MACNetCtl).Return(0, regio.ErrTransport).Once()

	h := NewHandler(tr, NewSession(true))
	text, err := h.Read()
	assert.ErrorIs(t, err, regio.ErrTransport)
	assert.Equal(t, "Error reading MAC_NCR: register transport failure\n", text)
}

type recordingLogger struct{ events []log.Event }

func (r *recordingLogger) Log(e log.Event) { r.events = append(r.events, e) }

func TestSetEnabledLogsChange(t *testing.T) {
	tr := mocks.NewMockTransport(t)
	rec := &recordingLogger{}
	h := NewHandler(tr, NewSession(true))
	h.Logger = rec
	h.DeviceID = "lan865x0"

	h.SetEnabled(true) // unchanged
	h.SetEnabled(false)
	assert.False(t, h.Session().Enabled())
	h.SetEnabled(true)

	require.Len(t, rec.events, 2)
	assert.Equal(t, log.StateEntityDebug, rec.events[0].StateChange.Entity)
	assert.Equal(t, "ON", rec.events[0].StateChange.OldState)
	assert.Equal(t, "OFF", rec.events[0].StateChange.NewState)
	assert.Equal(t, "lan865x0", rec.events[1].DeviceID)
}
