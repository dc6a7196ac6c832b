package device

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t1s-tools/lan865x-go/pkg/hashfilter"
	"github.com/t1s-tools/lan865x-go/pkg/reg"
	"github.com/t1s-tools/lan865x-go/pkg/regio"
	"github.com/t1s-tools/lan865x-go/pkg/sim"
)

type write struct {
	addr reg.Address
	v    reg.Value
}

func writesOf(chip *sim.Chip) []write {
	var out []write
	for _, a := range chip.Writes() {
		out = append(out, write{a.Addr, a.Value})
	}
	return out
}

func applyAndWait(t *testing.T, d *Device, req RxRequest) error {
	t.Helper()
	require.NoError(t, d.SetRxMode(req))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return d.WaitRxMode(ctx)
}

func TestRxModeWrites(t *testing.T) {
	a1 := hashfilter.HardwareAddr{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0x01}
	a2 := hashfilter.HardwareAddr{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0x02}

	tests := []struct {
		name string
		req  RxRequest
		want []write
	}{
		{
			name: "promiscuous leaves filter alone",
			req:  RxRequest{Mode: RxModePromiscuous},
			want: []write{{reg.MACNetCfg, 0x10}},
		},
		{
			name: "all multicast",
			req:  RxRequest{Mode: RxModeAllMulticast},
			want: []write{
				{reg.MACHashTop, 0xFFFFFFFF},
				{reg.MACHashBottom, 0xFFFFFFFF},
				{reg.MACNetCfg, 0x40},
			},
		},
		{
			name: "multicast list",
			req:  RxRequest{Mode: RxModeList, Multicast: []hashfilter.HardwareAddr{a1, a2}},
			want: []write{
				{reg.MACHashTop, 0x00100000},
				{reg.MACHashBottom, 0x00000010},
				{reg.MACNetCfg, 0x40},
			},
		},
		{
			name: "empty list clears filter",
			req:  RxRequest{Mode: RxModeList},
			want: []write{
				{reg.MACHashTop, 0},
				{reg.MACHashBottom, 0},
				{reg.MACNetCfg, 0},
			},
		},
		{
			name: "none clears filter",
			req:  RxRequest{Mode: RxModeNone},
			want: []write{
				{reg.MACHashTop, 0},
				{reg.MACHashBottom, 0},
				{reg.MACNetCfg, 0},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, chip := newSimDevice(t, Config{})
			chip.Poke(reg.MACHashTop, 0x12345678)
			chip.Poke(reg.MACHashBottom, 0x9ABCDEF0)

			require.NoError(t, applyAndWait(t, d, tt.req))
			assert.Equal(t, tt.want, writesOf(chip))

			snap := d.Snapshot()
			assert.Equal(t, tt.req.Mode, snap.RxMode.Mode)
			assert.NoError(t, snap.RxErr)
		})
	}
}

func TestRxModePromiscuousKeepsFilter(t *testing.T) {
	d, chip := newSimDevice(t, Config{})
	chip.Poke(reg.MACHashTop, 0x12345678)
	chip.Poke(reg.MACHashBottom, 0x9ABCDEF0)

	require.NoError(t, applyAndWait(t, d, RxRequest{Mode: RxModePromiscuous}))
	assert.Equal(t, hashfilter.Bitmap{Low: 0x9ABCDEF0, High: 0x12345678}, chip.Filter())
	assert.Equal(t, reg.Value(reg.NetCfgPromiscuous), chip.Peek(reg.MACNetCfg))
}

func TestRxModeFilterFailureSkipsModeWrite(t *testing.T) {
	for _, addr := range []reg.Address{reg.MACHashTop, reg.MACHashBottom} {
		t.Run(reg.Name(addr), func(t *testing.T) {
			d, chip := newSimDevice(t, Config{})
			chip.Poke(reg.MACNetCfg, 0x10)
			chip.Inject(sim.Fault{Op: sim.OpWrite, Addr: addr})

			err := applyAndWait(t, d, RxRequest{Mode: RxModeAllMulticast})
			assert.ErrorIs(t, err, sim.ErrInjected)
			assert.ErrorIs(t, d.RxModeErr(), sim.ErrInjected)

			for _, w := range chip.Writes() {
				assert.NotEqual(t, reg.MACNetCfg, w.Addr, "mode written after failed filter write")
			}
			assert.Equal(t, reg.Value(0x10), chip.Peek(reg.MACNetCfg))
		})
	}
}

func TestRxModeErrClearsOnSuccess(t *testing.T) {
	d, chip := newSimDevice(t, Config{})
	chip.Inject(sim.Fault{Op: sim.OpWrite, Addr: reg.MACNetCfg, Count: 1})

	require.Error(t, applyAndWait(t, d, RxRequest{Mode: RxModePromiscuous}))
	require.Error(t, d.RxModeErr())

	require.NoError(t, applyAndWait(t, d, RxRequest{Mode: RxModePromiscuous}))
	assert.NoError(t, d.RxModeErr())
}

// blockFirstHashWrite stalls the worker inside its first transition until
// release is closed.
func blockFirstHashWrite(chip *sim.Chip) (entered, release chan struct{}) {
	entered = make(chan struct{})
	release = make(chan struct{})
	first := true
	chip.SetHook(func(a sim.Access) {
		if a.Op == sim.OpWrite && a.Addr == reg.MACHashTop && first {
			first = false
			close(entered)
			<-release
		}
	})
	return entered, release
}

func TestRxModeCoalescesLatestWins(t *testing.T) {
	d, chip := newSimDevice(t, Config{})
	entered, release := blockFirstHashWrite(chip)

	require.NoError(t, d.SetRxMode(RxRequest{Mode: RxModeAllMulticast}))
	<-entered

	// SetRxMode must not block while a transition holds the device.
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = d.SetRxMode(RxRequest{Mode: RxModeList, Multicast: []hashfilter.HardwareAddr{{0x01, 0, 0x5e, 0, 0, 1}}})
		_ = d.SetRxMode(RxRequest{Mode: RxModeNone})
		_ = d.SetRxMode(RxRequest{Mode: RxModePromiscuous})
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("SetRxMode blocked on a running transition")
	}

	close(release)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, d.WaitRxMode(ctx))

	var modes []reg.Value
	hashWrites := 0
	for _, w := range writesOf(chip) {
		switch w.addr {
		case reg.MACNetCfg:
			modes = append(modes, w.v)
		case reg.MACHashTop, reg.MACHashBottom:
			hashWrites++
		}
	}
	// The in-flight all-multicast run, then exactly one run with the
	// latest request. The list and none requests never reach the chip.
	assert.Equal(t, []reg.Value{0x40, 0x10}, modes)
	assert.Equal(t, 2, hashWrites)
	assert.Equal(t, RxModePromiscuous, d.Snapshot().RxMode.Mode)
}

func TestShutdownJoinsInFlightTransition(t *testing.T) {
	chip := sim.New()
	d := New(regio.NewDirect(chip), Config{})
	entered, release := blockFirstHashWrite(chip)

	require.NoError(t, d.SetRxMode(RxRequest{Mode: RxModeAllMulticast}))
	<-entered
	require.NoError(t, d.SetRxMode(RxRequest{Mode: RxModePromiscuous}))

	stopped := make(chan struct{})
	go func() {
		d.Shutdown()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Shutdown returned while a transition was in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("Shutdown did not return")
	}

	// The in-flight transition completed; the queued one was dropped.
	var modes []reg.Value
	for _, w := range writesOf(chip) {
		if w.addr == reg.MACNetCfg {
			modes = append(modes, w.v)
		}
	}
	assert.Equal(t, []reg.Value{0x40}, modes)
	assert.ErrorIs(t, d.WaitRxMode(context.Background()), ErrShutdown)
}

func TestSetRxModeCopiesList(t *testing.T) {
	d, chip := newSimDevice(t, Config{})
	entered, release := blockFirstHashWrite(chip)

	require.NoError(t, d.SetRxMode(RxRequest{Mode: RxModeAllMulticast}))
	<-entered

	list := []hashfilter.HardwareAddr{{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0x01}}
	require.NoError(t, d.SetRxMode(RxRequest{Mode: RxModeList, Multicast: list}))
	list[0] = hashfilter.HardwareAddr{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0x02}

	close(release)
	require.NoError(t, d.WaitRxMode(context.Background()))
	assert.Equal(t, hashfilter.Bitmap{Low: 0x10}, chip.Filter())
}

func TestParseRxMode(t *testing.T) {
	tests := map[string]RxMode{
		"none":          RxModeNone,
		"LIST":          RxModeList,
		"allmulti":      RxModeAllMulticast,
		"all_multicast": RxModeAllMulticast,
		"promisc":       RxModePromiscuous,
	}
	for in, want := range tests {
		got, err := ParseRxMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
		assert.NotEqual(t, "UNKNOWN", got.String())
	}
	_, err := ParseRxMode("bogus")
	assert.Error(t, err)
}
