package device

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/t1s-tools/lan865x-go/pkg/hashfilter"
	"github.com/t1s-tools/lan865x-go/pkg/log"
	"github.com/t1s-tools/lan865x-go/pkg/reg"
)

// RxMode is the receive mode requested by the network stack.
type RxMode uint8

const (
	// RxModeNone receives unicast only.
	RxModeNone RxMode = iota
	// RxModeList receives the multicast groups in RxRequest.Multicast.
	RxModeList
	// RxModeAllMulticast receives every multicast frame.
	RxModeAllMulticast
	// RxModePromiscuous receives every frame.
	RxModePromiscuous
)

// String returns the mode name.
func (m RxMode) String() string {
	switch m {
	case RxModeNone:
		return "NONE"
	case RxModeList:
		return "LIST"
	case RxModeAllMulticast:
		return "ALL_MULTICAST"
	case RxModePromiscuous:
		return "PROMISCUOUS"
	default:
		return "UNKNOWN"
	}
}

// ParseRxMode parses a mode name as printed by String, case-insensitive.
// "multicast" and "allmulti" are accepted for all-multicast, "promisc" for
// promiscuous.
func ParseRxMode(s string) (RxMode, error) {
	switch strings.ToLower(s) {
	case "none", "unicast":
		return RxModeNone, nil
	case "list":
		return RxModeList, nil
	case "all_multicast", "allmulti", "multicast":
		return RxModeAllMulticast, nil
	case "promiscuous", "promisc":
		return RxModePromiscuous, nil
	}
	return RxModeNone, fmt.Errorf("unknown rx mode %q", s)
}

// RxRequest is one network mode notification: the mode plus the current
// multicast list.
type RxRequest struct {
	Mode      RxMode
	Multicast []hashfilter.HardwareAddr
}

func (r RxRequest) String() string {
	if r.Mode == RxModeList {
		return fmt.Sprintf("%s(%d)", r.Mode, len(r.Multicast))
	}
	return r.Mode.String()
}

// SetRxMode requests a receive filter transition and returns without doing
// register I/O. Requests made while a transition is running replace each
// other; only the latest one is applied when the running one ends.
func (d *Device) SetRxMode(req RxRequest) error {
	if d.isShutdown() {
		return ErrShutdown
	}
	req.Multicast = append([]hashfilter.HardwareAddr(nil), req.Multicast...)
	d.rx.request(req)
	return nil
}

// WaitRxMode blocks until the latest requested transition has run and
// returns its result.
func (d *Device) WaitRxMode(ctx context.Context) error {
	return d.rx.wait(ctx)
}

// RxModeErr returns the result of the most recent transition.
func (d *Device) RxModeErr() error {
	_, err := d.rx.last()
	return err
}

// applyRxMode programs the hash filter and MAC_NCFGR for req. A failed
// filter write returns before MAC_NCFGR is touched.
func (d *Device) applyRxMode(req RxRequest) error {
	d.ioMu.Lock()
	defer d.ioMu.Unlock()

	var cfg reg.NetCfg
	switch {
	case req.Mode == RxModePromiscuous:
		cfg = reg.NetCfgPromiscuous
	case req.Mode == RxModeAllMulticast:
		if err := d.writeFilter(hashfilter.AllMulticast); err != nil {
			return err
		}
		cfg = reg.NetCfgMulticast
	case req.Mode == RxModeList && len(req.Multicast) > 0:
		if err := d.writeFilter(hashfilter.Fold(req.Multicast)); err != nil {
			return err
		}
		cfg = reg.NetCfgMulticast
	default:
		if err := d.writeFilter(hashfilter.Bitmap{}); err != nil {
			return err
		}
	}

	if err := d.tr.WriteRegister(reg.MACNetCfg, reg.Value(cfg)); err != nil {
		return fmt.Errorf("write MAC_NCFGR: %w", err)
	}
	return nil
}

// writeFilter writes the hash registers, top half first.
func (d *Device) writeFilter(b hashfilter.Bitmap) error {
	if err := d.tr.WriteRegister(reg.MACHashTop, reg.Value(b.High)); err != nil {
		return fmt.Errorf("write MAC_HRT: %w", err)
	}
	if err := d.tr.WriteRegister(reg.MACHashBottom, reg.Value(b.Low)); err != nil {
		return fmt.Errorf("write MAC_HRB: %w", err)
	}
	return nil
}

// rxWorker runs filter transitions one at a time. The mailbox holds at
// most one wakeup and pending holds only the latest request.
type rxWorker struct {
	dev     *Device
	mailbox chan struct{}
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}

	mu        sync.Mutex // guards the fields below
	pending   *RxRequest
	requested uint64
	finished  uint64
	applied   RxRequest
	err       error
	settled   chan struct{}
}

func (w *rxWorker) start(d *Device) {
	w.dev = d
	w.mailbox = make(chan struct{}, 1)
	w.settled = make(chan struct{})
	w.done = make(chan struct{})
	w.ctx, w.cancel = context.WithCancel(context.Background())
	go w.run()
}

func (w *rxWorker) request(req RxRequest) {
	w.mu.Lock()
	w.pending = &req
	w.requested++
	w.mu.Unlock()

	select {
	case w.mailbox <- struct{}{}:
	default:
	}
}

func (w *rxWorker) run() {
	defer close(w.done)
	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.mailbox:
		}
		if w.ctx.Err() != nil {
			return
		}

		w.mu.Lock()
		req, gen := w.pending, w.requested
		w.pending = nil
		w.mu.Unlock()
		if req == nil {
			continue
		}

		err := w.dev.applyRxMode(*req)
		w.report(*req, err)

		w.mu.Lock()
		w.finished = gen
		w.err = err
		if err == nil {
			w.applied = *req
		}
		close(w.settled)
		w.settled = make(chan struct{})
		w.mu.Unlock()
	}
}

func (w *rxWorker) report(req RxRequest, err error) {
	d := w.dev
	if err != nil {
		d.logError("set rx mode "+req.String(), err)
		d.debugLog("rx mode transition failed", "mode", req, "error", err)
		return
	}
	d.logState(log.StateEntityRxMode, "", req.String(), "")
	d.debugLog("rx mode applied", "mode", req)
}

func (w *rxWorker) wait(ctx context.Context) error {
	for {
		w.mu.Lock()
		if w.finished >= w.requested {
			err := w.err
			w.mu.Unlock()
			return err
		}
		settled := w.settled
		w.mu.Unlock()

		select {
		case <-settled:
		case <-w.done:
			return ErrShutdown
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (w *rxWorker) last() (RxRequest, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.applied, w.err
}

// stop cancels the worker and joins it. A transition in flight completes
// first.
func (w *rxWorker) stop() {
	w.cancel()
	<-w.done
}
