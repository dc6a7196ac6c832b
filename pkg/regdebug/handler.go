package regdebug

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/t1s-tools/lan865x-go/pkg/log"
	"github.com/t1s-tools/lan865x-go/pkg/reg"
	"github.com/t1s-tools/lan865x-go/pkg/regio"
)

// Errors returned by Handler.
var (
	ErrPermissionDenied = errors.New("debug access disabled")
	ErrInvalidInput     = errors.New("invalid format, use 'addr [value]'")
)

// MaxLineLength is the longest accepted command line, including the
// trailing newline.
const MaxLineLength = 63

// DisabledText is returned by Read while the gate is closed.
const DisabledText = "Debug disabled. Enable via echo 1 > debug_enable\n"

// Handler runs debug commands against a transport.
type Handler struct {
	tr      regio.Transport
	session *Session

	// Logger receives a state event when the gate changes. Optional.
	Logger log.Logger
	// DeviceID tags protocol log events.
	DeviceID string
	// Slog receives operational debug messages. Optional.
	Slog *slog.Logger
}

// NewHandler returns a handler for session using tr for register I/O.
func NewHandler(tr regio.Transport, session *Session) *Handler {
	return &Handler{tr: tr, session: session}
}

// Session returns the session the handler updates.
func (h *Handler) Session() *Session {
	return h.session
}

// Write executes one command line. "addr" reads the register and "addr
// value" writes it; both tokens are hex with an optional 0x prefix. On
// success the session records the address and value. Transport errors are
// returned unchanged and leave the session untouched.
func (h *Handler) Write(line string) error {
	if !h.session.Enabled() {
		h.debugLog("debug write rejected", "line", line)
		return ErrPermissionDenied
	}
	if len(line) > MaxLineLength {
		return fmt.Errorf("%w: line too long", ErrInvalidInput)
	}

	fields := strings.Fields(line)
	if len(fields) != 1 && len(fields) != 2 {
		return ErrInvalidInput
	}
	addr, err := reg.ParseHex(fields[0])
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if len(fields) == 1 {
		v, err := h.tr.ReadRegister(reg.Address(addr))
		if err != nil {
			h.debugLog("debug read failed", "addr", reg.Address(addr), "error", err)
			return err
		}
		h.session.record(reg.Address(addr), v)
		h.debugLog("debug read", "addr", reg.Address(addr), "value", v)
		return nil
	}

	value, err := reg.ParseHex(fields[1])
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := h.tr.WriteRegister(reg.Address(addr), reg.Value(value)); err != nil {
		h.debugLog("debug write failed", "addr", reg.Address(addr), "error", err)
		return err
	}
	h.session.record(reg.Address(addr), reg.Value(value))
	h.debugLog("debug write", "addr", reg.Address(addr), "value", reg.Value(value))
	return nil
}

// Read renders the status block. With the gate closed it returns
// DisabledText without touching the device. If MAC_NCR cannot be read the
// text names the failure and the error is returned as well.
func (h *Handler) Read() (string, error) {
	if !h.session.Enabled() {
		return DisabledText, nil
	}

	ncr, err := h.tr.ReadRegister(reg.MACNetCtl)
	if err != nil {
		return fmt.Sprintf("Error reading MAC_NCR: %v\n", err), err
	}

	addr, value := h.session.Last()
	ctl := reg.NetCtl(ncr)
	var b strings.Builder
	b.WriteString("=== LAN865x Register Debug Info ===\n")
	fmt.Fprintf(&b, "MAC_NCR (0x%08x): 0x%08x\n", uint32(reg.MACNetCtl), uint32(ncr))
	fmt.Fprintf(&b, "  TX_EN: %s\n", onOff(ctl&reg.NetCtlTxEnable != 0))
	fmt.Fprintf(&b, "  RX_EN: %s\n", onOff(ctl&reg.NetCtlRxEnable != 0))
	fmt.Fprintf(&b, "Last accessed: addr=0x%08x, val=0x%08x\n", uint32(addr), uint32(value))
	b.WriteString("Debug enabled: YES\n\n")
	b.WriteString("Usage: echo 'addr value' > regs  # Write register\n")
	b.WriteString("       echo 'addr' > regs        # Read register\n")
	return b.String(), nil
}

// SetEnabled toggles the session gate and records the change.
func (h *Handler) SetEnabled(enabled bool) {
	was := h.session.SetEnabled(enabled)
	if was == enabled {
		return
	}
	if h.Logger != nil {
		h.Logger.Log(log.Event{
			Timestamp: nowFunc(),
			Layer:     log.LayerDevice,
			Category:  log.CategoryState,
			DeviceID:  h.DeviceID,
			StateChange: &log.StateChangeEvent{
				Entity:   log.StateEntityDebug,
				OldState: onOff(was),
				NewState: onOff(enabled),
			},
		})
	}
	h.debugLog("debug gate changed", "enabled", enabled)
}

func (h *Handler) debugLog(msg string, args ...any) {
	if h.Slog != nil {
		h.Slog.Debug(msg, args...)
	}
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}

var nowFunc = time.Now
