package commands

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/t1s-tools/lan865x-go/pkg/log"
	"github.com/t1s-tools/lan865x-go/pkg/reg"
)

var baseTime = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

func access(op log.AccessOp, addr reg.Address, v uint32, errText string, at time.Duration) log.Event {
	return log.Event{
		Timestamp: baseTime.Add(at),
		Layer:     log.LayerRegister,
		Category:  log.CategoryAccess,
		DeviceID:  "lan865x0",
		Access: &log.AccessEvent{
			Op:      op,
			Address: uint32(addr),
			Value:   v,
			Error:   errText,
		},
	}
}

func tornError(at time.Duration) log.Event {
	return log.Event{
		Timestamp: baseTime.Add(at),
		Layer:     log.LayerDevice,
		Category:  log.CategoryError,
		DeviceID:  "lan865x0",
		Error: &log.ErrorEventData{
			Layer:   log.LayerDevice,
			Message: "station address torn",
			Kind:    "TORN_STATE",
			Context: "set_mac_address",
		},
	}
}

func writeLog(t *testing.T, events ...log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "device.rlog")
	fl, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}
	for _, e := range events {
		fl.Log(e)
	}
	if err := fl.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return path
}

func TestFormatAccessEvent(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, access(log.AccessRead, reg.MACNetCtl, 0x0C, "", 0))
	out := buf.String()

	for _, want := range []string{
		"2026-03-02T09:30:00.000000Z",
		"[lan865x0]",
		"REGISTER",
		"READ",
		"MAC_NCR",
		"0x0000000C",
		"[TXEN RXEN]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatFailedAccess(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, access(log.AccessWrite, reg.MACSpecAddr1Top, 0x5544, "injected bus fault", 0))
	out := buf.String()

	if !strings.Contains(out, "Error: injected bus fault") {
		t.Errorf("expected error line, got:\n%s", out)
	}
	if strings.Contains(out, "Value:") {
		t.Errorf("failed access should not print a value:\n%s", out)
	}
}

func TestFormatErrorEvent(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, tornError(0))
	out := buf.String()

	if !strings.Contains(out, "DEVICE") || !strings.Contains(out, "Error") {
		t.Errorf("unexpected header:\n%s", out)
	}
	if !strings.Contains(out, "Kind: TORN_STATE") {
		t.Errorf("expected kind, got:\n%s", out)
	}
}

func TestRunViewFiltersByRegister(t *testing.T) {
	path := writeLog(t,
		access(log.AccessWrite, reg.MACSpecAddr1Bot, 0x33221100, "", 0),
		access(log.AccessWrite, reg.MACSpecAddr1Top, 0x5544, "", time.Millisecond),
	)

	addr, err := ParseRegisterFlag("MAC_SAT1")
	if err != nil {
		t.Fatalf("ParseRegisterFlag: %v", err)
	}

	var buf bytes.Buffer
	if err := RunView(path, log.Filter{Address: &addr}, &buf); err != nil {
		t.Fatalf("RunView: %v", err)
	}
	out := buf.String()
	if strings.Count(out, "WRITE") != 1 {
		t.Errorf("expected one event, got:\n%s", out)
	}
	if !strings.Contains(out, "0x00005544") {
		t.Errorf("expected high word, got:\n%s", out)
	}
}

func TestRunViewMissingFile(t *testing.T) {
	err := RunView(filepath.Join(t.TempDir(), "nope.rlog"), log.Filter{}, io.Discard)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestCollectStats(t *testing.T) {
	events := []log.Event{
		access(log.AccessRead, reg.MACNetCtl, 0, "", 0),
		access(log.AccessWrite, reg.MACNetCtl, 0x0C, "", time.Millisecond),
		access(log.AccessWrite, reg.MACSpecAddr1Top, 0x5544, "injected bus fault", 2*time.Millisecond),
		tornError(3 * time.Millisecond),
	}
	i := 0
	next := func() (log.Event, error) {
		if i == len(events) {
			return log.Event{}, io.EOF
		}
		i++
		return events[i-1], nil
	}

	stats, err := CollectStats(next)
	if err != nil {
		t.Fatalf("CollectStats: %v", err)
	}
	if stats.TotalEvents != 4 {
		t.Errorf("TotalEvents = %d, want 4", stats.TotalEvents)
	}
	if stats.Reads != 1 || stats.Writes != 2 || stats.FailedAccesses != 1 {
		t.Errorf("reads=%d writes=%d failed=%d", stats.Reads, stats.Writes, stats.FailedAccesses)
	}
	ncr := stats.Registers[reg.MACNetCtl]
	if ncr == nil || ncr.LastValue != 0x0C {
		t.Errorf("MAC_NCR stats = %+v", ncr)
	}
	if stats.ErrorsByKind["TORN_STATE"] != 1 {
		t.Errorf("ErrorsByKind = %v", stats.ErrorsByKind)
	}
	if got := stats.TimeRange.End.Sub(stats.TimeRange.Start); got != 3*time.Millisecond {
		t.Errorf("time range = %s", got)
	}
}

func TestRunStats(t *testing.T) {
	path := writeLog(t,
		access(log.AccessWrite, reg.MACNetCfg, 0x40, "", 0),
		tornError(time.Millisecond),
	)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Total Events: 2",
		"Accesses: 0 reads, 1 writes, 0 failed",
		"MAC_NCFGR",
		"TORN_STATE:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestParseFlags(t *testing.T) {
	if l, err := ParseLayerFlag("Register"); err != nil || l != log.LayerRegister {
		t.Errorf("ParseLayerFlag = %v, %v", l, err)
	}
	if _, err := ParseLayerFlag("wire"); err == nil {
		t.Error("expected error for unknown layer")
	}
	if c, err := ParseCategoryFlag("error"); err != nil || c != log.CategoryError {
		t.Errorf("ParseCategoryFlag = %v, %v", c, err)
	}
	if a, err := ParseRegisterFlag("0x10001"); err != nil || a != uint32(reg.MACNetCfg) {
		t.Errorf("ParseRegisterFlag = %#x, %v", a, err)
	}
}
