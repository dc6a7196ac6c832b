package device

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/t1s-tools/lan865x-go/pkg/hashfilter"
	"github.com/t1s-tools/lan865x-go/pkg/log"
	"github.com/t1s-tools/lan865x-go/pkg/reg"
	"github.com/t1s-tools/lan865x-go/pkg/regio"
)

// State is the link state as far as MAC_NCR is concerned.
type State int32

const (
	// StateClosed means transmit and receive are disabled.
	StateClosed State = iota
	// StateOpen means transmit and receive are enabled.
	StateOpen
	// StateIndeterminate means the last transition failed part way.
	StateIndeterminate
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateIndeterminate:
		return "INDETERMINATE"
	default:
		return "UNKNOWN"
	}
}

// Config configures a Device.
type Config struct {
	// ID names the device in log events (default "lan865x0").
	ID string

	// MAC is the station address programmed by Init. A zero or multicast
	// address is replaced by a random locally administered one.
	MAC hashfilter.HardwareAddr

	// StopQueue is called at the start of Close, before any register I/O.
	StopQueue func()

	// StartQueue is called after a successful Open.
	StartQueue func()

	// Logger receives state change and error events (optional).
	Logger log.Logger

	// Slog receives operational messages (optional).
	Slog *slog.Logger
}

// Device controls one MAC-PHY.
type Device struct {
	tr     regio.Transport
	config Config

	// ioMu serializes all register I/O and guards mac.
	ioMu sync.Mutex
	mac  hashfilter.HardwareAddr

	state    atomic.Int32
	shutdown atomic.Bool

	rx rxWorker
}

// New creates a Device on tr and starts its rx-mode worker. Call Init to
// program the chip and Shutdown to stop the worker.
func New(tr regio.Transport, config Config) *Device {
	if config.ID == "" {
		config.ID = "lan865x0"
	}
	d := &Device{tr: tr, config: config}
	d.state.Store(int32(StateClosed))
	d.rx.start(d)
	return d
}

// ID returns the configured device ID.
func (d *Device) ID() string {
	return d.config.ID
}

// State returns the current link state.
func (d *Device) State() State {
	return State(d.state.Load())
}

// Init runs the probe-time setup: program the TSU timer increment, then
// the station address with itself as the rollback target.
func (d *Device) Init(ctx context.Context) error {
	if d.isShutdown() {
		return ErrShutdown
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	mac := d.config.MAC
	if mac.IsMulticast() || mac == (hashfilter.HardwareAddr{}) {
		mac = randomMAC()
		d.debugLog("using random mac address", "mac", mac)
	}

	if err := d.lockIO(); err != nil {
		return err
	}
	defer d.ioMu.Unlock()

	if err := d.tr.WriteRegister(reg.MACTSUTimerIncr, reg.TSUTimerIncrNsec); err != nil {
		return fmt.Errorf("init tsu timer: %w", err)
	}
	if err := programMAC(d.tr, mac, mac); err != nil {
		return fmt.Errorf("init mac address: %w", err)
	}
	d.mac = mac
	d.debugLog("device initialized", "id", d.config.ID, "mac", mac)
	return nil
}

// Open enables the transmitter and receiver. On failure the state becomes
// StateIndeterminate and the error matches ErrDeviceUnavailable.
func (d *Device) Open(ctx context.Context) error {
	if d.isShutdown() {
		return ErrShutdown
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := d.updateNetCtl(func(c reg.NetCtl) reg.NetCtl { return c | reg.NetCtlTxRx }); err != nil {
		if errors.Is(err, ErrShutdown) {
			return err
		}
		d.transition(StateIndeterminate, err.Error())
		d.logError("open", err)
		return err
	}
	d.transition(StateOpen, "")
	if d.config.StartQueue != nil {
		d.config.StartQueue()
	}
	return nil
}

// Close stops the queue and disables the transmitter and receiver. On
// failure the state becomes StateIndeterminate and the error matches
// ErrDeviceUnavailable.
func (d *Device) Close(ctx context.Context) error {
	if d.isShutdown() {
		return ErrShutdown
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if d.config.StopQueue != nil {
		d.config.StopQueue()
	}
	if err := d.updateNetCtl(func(c reg.NetCtl) reg.NetCtl { return c &^ reg.NetCtlTxRx }); err != nil {
		if errors.Is(err, ErrShutdown) {
			return err
		}
		d.transition(StateIndeterminate, err.Error())
		d.logError("close", err)
		return err
	}
	d.transition(StateClosed, "")
	return nil
}

// updateNetCtl is a read-modify-write of MAC_NCR.
func (d *Device) updateNetCtl(modify func(reg.NetCtl) reg.NetCtl) error {
	if err := d.lockIO(); err != nil {
		return err
	}
	defer d.ioMu.Unlock()

	v, err := d.tr.ReadRegister(reg.MACNetCtl)
	if err != nil {
		return fmt.Errorf("%w: read MAC_NCR: %w", ErrDeviceUnavailable, err)
	}
	next := modify(reg.NetCtl(v))
	if err := d.tr.WriteRegister(reg.MACNetCtl, reg.Value(next)); err != nil {
		return fmt.Errorf("%w: write MAC_NCR: %w", ErrDeviceUnavailable, err)
	}
	return nil
}

func (d *Device) transition(to State, reason string) {
	from := State(d.state.Swap(int32(to)))
	if from == to {
		return
	}
	d.logState(log.StateEntityLink, from.String(), to.String(), reason)
	d.debugLog("link state changed", "from", from, "to", to)
}

// Shutdown stops the rx-mode worker and waits for any register access in
// progress to finish. Afterwards every operation returns ErrShutdown and
// the transport may be released. Shutdown is idempotent.
func (d *Device) Shutdown() {
	if d.shutdown.Swap(true) {
		return
	}
	d.rx.stop()
	// Accesses that passed the shutdown check hold ioMu; wait them out.
	d.ioMu.Lock()
	d.ioMu.Unlock()
	d.debugLog("device shut down", "id", d.config.ID)
}

func (d *Device) isShutdown() bool {
	return d.shutdown.Load()
}

// lockIO takes ioMu for register I/O. It fails with ErrShutdown, leaving
// the lock free, once Shutdown has started.
func (d *Device) lockIO() error {
	d.ioMu.Lock()
	if d.isShutdown() {
		d.ioMu.Unlock()
		return ErrShutdown
	}
	return nil
}

// Transport returns a view of the device transport that takes the device
// I/O lock for each access. Debug and diagnostic access goes through it so
// it never interleaves with a device transition.
func (d *Device) Transport() regio.Transport {
	return lockedTransport{d: d}
}

type lockedTransport struct {
	d *Device
}

func (l lockedTransport) ReadRegister(addr reg.Address) (reg.Value, error) {
	if err := l.d.lockIO(); err != nil {
		return 0, err
	}
	defer l.d.ioMu.Unlock()
	return l.d.tr.ReadRegister(addr)
}

func (l lockedTransport) WriteRegister(addr reg.Address, v reg.Value) error {
	if err := l.d.lockIO(); err != nil {
		return err
	}
	defer l.d.ioMu.Unlock()
	return l.d.tr.WriteRegister(addr, v)
}

// Snapshot is a point-in-time view of the device.
type Snapshot struct {
	ID     string
	State  State
	MAC    hashfilter.HardwareAddr
	RxMode RxRequest
	RxErr  error
}

// Snapshot returns the current device view without register I/O.
func (d *Device) Snapshot() Snapshot {
	applied, err := d.rx.last()
	return Snapshot{
		ID:     d.config.ID,
		State:  d.State(),
		MAC:    d.MACAddress(),
		RxMode: applied,
		RxErr:  err,
	}
}

func (d *Device) logState(entity log.StateEntity, from, to, reason string) {
	if d.config.Logger == nil {
		return
	}
	d.config.Logger.Log(log.Event{
		Timestamp: time.Now(),
		Layer:     log.LayerDevice,
		Category:  log.CategoryState,
		DeviceID:  d.config.ID,
		StateChange: &log.StateChangeEvent{
			Entity:   entity,
			OldState: from,
			NewState: to,
			Reason:   reason,
		},
	})
}

func (d *Device) logError(op string, err error) {
	if d.config.Logger == nil {
		return
	}
	d.config.Logger.Log(log.Event{
		Timestamp: time.Now(),
		Layer:     log.LayerDevice,
		Category:  log.CategoryError,
		DeviceID:  d.config.ID,
		Error: &log.ErrorEventData{
			Layer:   log.LayerDevice,
			Message: err.Error(),
			Kind:    errorKind(err),
			Context: op,
		},
	})
}

// errorKind names the error classification used in log events.
func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrTornState):
		return "TORN_STATE"
	case errors.Is(err, ErrDeviceUnavailable):
		return "DEVICE_UNAVAILABLE"
	case errors.Is(err, regio.ErrUnsupported):
		return "UNSUPPORTED"
	case errors.Is(err, regio.ErrTransport):
		return "TRANSPORT"
	default:
		return ""
	}
}

func (d *Device) debugLog(msg string, args ...any) {
	if d.config.Slog != nil {
		d.config.Slog.Debug(msg, args...)
	}
}

// randomMAC returns a random unicast, locally administered address.
func randomMAC() hashfilter.HardwareAddr {
	var a hashfilter.HardwareAddr
	_, _ = rand.Read(a[:])
	a[0] = a[0]&^0x01 | 0x02
	return a
}
