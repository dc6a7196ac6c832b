package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t1s-tools/lan865x-go/pkg/hashfilter"
	"github.com/t1s-tools/lan865x-go/pkg/reg"
	"github.com/t1s-tools/lan865x-go/pkg/sim"
)

func TestDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.True(t, cfg.DebugEnabled)
	assert.True(t, cfg.RegisterOps)
	assert.Equal(t, "lan865x", cfg.Driver)
	assert.Equal(t, "127.0.0.1:8651", cfg.Listen)

	_, ok, err := cfg.StationAddr()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
device_id: t1s-bench
listen: ":9000"
register_ops: false
request_timeout: 2s
mac: 02:00:00:00:00:01
debug_enabled: false
state_file: /var/lib/lan865x/state.json
protocol_log: /var/log/lan865x/device.rlog
log_level: debug
mdns:
  advertise: true
  instance: bench
faults:
  - op: write
    register: MAC_SAT1
    count: 1
  - register: "0x00010000"
    skip: 2
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "t1s-bench", cfg.DeviceID)
	assert.Equal(t, "lan865x", cfg.Driver)
	assert.Equal(t, ":9000", cfg.Listen)
	assert.False(t, cfg.RegisterOps)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	assert.False(t, cfg.DebugEnabled)
	assert.Equal(t, MDNS{Advertise: true, Instance: "bench"}, cfg.MDNS)

	mac, ok, err := cfg.StationAddr()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, hashfilter.HardwareAddr{0x02, 0, 0, 0, 0, 0x01}, mac)

	faults, err := cfg.SimFaults()
	require.NoError(t, err)
	assert.Equal(t, []sim.Fault{
		{Op: sim.OpWrite, Addr: reg.MACSpecAddr1Top, Count: 1},
		{Op: sim.OpAny, Addr: reg.MACNetCtl, Skip: 2},
	}, faults)
}

func TestInvalid(t *testing.T) {
	tests := map[string]string{
		"unknown key":     "colour: blue\n",
		"bad listen":      "listen: nowhere\n",
		"bad mac":         "mac: 00:11\n",
		"multicast mac":   "mac: 01:00:5e:00:00:01\n",
		"bad level":       "log_level: loud\n",
		"bad fault op":    "faults: [{op: poke, register: MAC_NCR}]\n",
		"bad fault reg":   "faults: [{op: read, register: NOPE}]\n",
		"negative count":  "faults: [{register: MAC_NCR, count: -1}]\n",
		"zero timeout":    "request_timeout: 0s\n",
		"empty device id": "device_id: \"\"\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
