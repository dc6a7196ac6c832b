package control

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/t1s-tools/lan865x-go/pkg/device"
	"github.com/t1s-tools/lan865x-go/pkg/hashfilter"
	"github.com/t1s-tools/lan865x-go/pkg/reg"
	"github.com/t1s-tools/lan865x-go/pkg/regdebug"
	"github.com/t1s-tools/lan865x-go/pkg/regio"
	"github.com/t1s-tools/lan865x-go/pkg/version"
	"github.com/t1s-tools/lan865x-go/pkg/wire"
)

// DefaultRequestTimeout bounds device operations started by one request.
const DefaultRequestTimeout = 5 * time.Second

// Change identifies persistent device state modified by a request.
type Change uint8

const (
	ChangeMAC Change = iota
	ChangeDebugGate
)

// Option configures a Handler.
type Option func(*Handler)

// WithRegisterOps enables or disables ReadRegister and WriteRegister.
// Disabled, both are answered with StatusUnsupported, as a driver without
// the register extension would.
func WithRegisterOps(enabled bool) Option {
	return func(h *Handler) { h.registerOps = enabled }
}

// WithDriver sets the driver name reported by Identify.
func WithDriver(name string) Option {
	return func(h *Handler) { h.driver = name }
}

// WithRequestTimeout bounds device operations per request.
func WithRequestTimeout(d time.Duration) Option {
	return func(h *Handler) { h.timeout = d }
}

// WithOnChange registers a callback run after a request changed state that
// should survive a restart.
func WithOnChange(fn func(Change)) Option {
	return func(h *Handler) { h.onChange = fn }
}

// WithSlog sets the operational logger.
func WithSlog(l *slog.Logger) Option {
	return func(h *Handler) { h.slog = l }
}

// Handler answers control requests for one device.
type Handler struct {
	dev   *device.Device
	debug *regdebug.Handler
	tr    regio.Transport

	registerOps bool
	driver      string
	timeout     time.Duration
	onChange    func(Change)
	slog        *slog.Logger
}

// NewHandler returns a handler for dev. Register and debug access go
// through dev.Transport so they serialize with device transitions.
func NewHandler(dev *device.Device, debug *regdebug.Handler, opts ...Option) *Handler {
	h := &Handler{
		dev:         dev,
		debug:       debug,
		tr:          dev.Transport(),
		registerOps: true,
		driver:      regio.DefaultDriver,
		timeout:     DefaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HandleRequest runs req and returns the response. It never returns nil.
func (h *Handler) HandleRequest(ctx context.Context, req *wire.Request) *wire.Response {
	resp := h.dispatch(ctx, req)
	resp.MessageID = req.MessageID
	if !resp.IsSuccess() {
		h.debugLog("request failed", "op", req.Operation, "status", resp.Status, "detail", resp.Text)
	}
	return resp
}

func (h *Handler) dispatch(ctx context.Context, req *wire.Request) *wire.Response {
	if err := req.Validate(); err != nil {
		return errorResponse(err)
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	switch req.Operation {
	case wire.OpIdentify:
		return &wire.Response{Driver: h.driver, Version: version.Current}

	case wire.OpReadRegister:
		if !h.registerOps {
			return unsupported(req.Operation)
		}
		v, err := h.tr.ReadRegister(reg.Address(req.Address))
		if err != nil {
			return errorResponse(err)
		}
		return &wire.Response{Value: uint32(v)}

	case wire.OpWriteRegister:
		if !h.registerOps {
			return unsupported(req.Operation)
		}
		return errorResponse(h.tr.WriteRegister(reg.Address(req.Address), reg.Value(req.Value)))

	case wire.OpDebugRead:
		text, err := h.debug.Read()
		resp := errorResponse(err)
		resp.Text = text
		return resp

	case wire.OpDebugWrite:
		return errorResponse(h.debug.Write(req.Line))

	case wire.OpDebugEnable:
		if h.debug.Session().Enabled() != req.Enabled {
			h.debug.SetEnabled(req.Enabled)
			h.changed(ChangeDebugGate)
		}
		return &wire.Response{Enabled: req.Enabled}

	case wire.OpDebugState:
		return &wire.Response{Enabled: h.debug.Session().Enabled()}

	case wire.OpOpen:
		return errorResponse(h.dev.Open(ctx))

	case wire.OpClose:
		return errorResponse(h.dev.Close(ctx))

	case wire.OpSetMAC:
		mac, err := hashfilter.FromBytes(req.MAC)
		if err != nil {
			return errorResponse(err)
		}
		changed, err := h.dev.SetMACAddress(mac)
		if err != nil {
			return errorResponse(err)
		}
		if changed {
			h.changed(ChangeMAC)
		}
		return &wire.Response{}

	case wire.OpSetRxMode:
		rx, err := rxRequest(req)
		if err != nil {
			return errorResponse(err)
		}
		if err := h.dev.SetRxMode(rx); err != nil {
			return errorResponse(err)
		}
		return errorResponse(h.dev.WaitRxMode(ctx))
	}
	return unsupported(req.Operation)
}

func (h *Handler) changed(c Change) {
	if h.onChange != nil {
		h.onChange(c)
	}
}

func (h *Handler) debugLog(msg string, args ...any) {
	if h.slog != nil {
		h.slog.Debug(msg, args...)
	}
}

func rxRequest(req *wire.Request) (device.RxRequest, error) {
	rx := device.RxRequest{Mode: device.RxMode(req.RxMode)}
	for _, b := range req.Multicast {
		a, err := hashfilter.FromBytes(b)
		if err != nil {
			return rx, err
		}
		rx.Multicast = append(rx.Multicast, a)
	}
	return rx, nil
}

func errorResponse(err error) *wire.Response {
	if err == nil {
		return &wire.Response{}
	}
	return &wire.Response{Status: StatusFor(err), Text: err.Error()}
}

func unsupported(op wire.Operation) *wire.Response {
	return &wire.Response{Status: wire.StatusUnsupported, Text: fmt.Sprintf("%s not supported by this driver", op)}
}
