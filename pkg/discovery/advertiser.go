package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/enbility/zeroconf/v3"
)

// AdvertiserConfig configures an MDNSAdvertiser.
type AdvertiserConfig struct {
	// Instance defaults to the device ID.
	Instance string

	// Interface limits announcements to one network interface.
	Interface string

	// TTL defaults to DefaultTTL.
	TTL time.Duration

	Slog *slog.Logger
}

// MDNSAdvertiser announces one control channel over mDNS.
type MDNSAdvertiser struct {
	cfg AdvertiserConfig

	mu  sync.Mutex
	reg *zeroconf.Server // nil when not advertising
}

// NewMDNSAdvertiser creates an advertiser that is not yet announcing.
func NewMDNSAdvertiser(config AdvertiserConfig) *MDNSAdvertiser {
	if config.TTL == 0 {
		config.TTL = DefaultTTL
	}
	return &MDNSAdvertiser{cfg: config}
}

// Advertise announces info, withdrawing any earlier announcement first.
func (a *MDNSAdvertiser) Advertise(_ context.Context, info *ControlInfo) error {
	instance := a.cfg.Instance
	if instance == "" {
		instance = info.DeviceID
	}
	if err := ValidateInstanceName(instance); err != nil {
		return err
	}
	port := int(info.Port)
	if port == 0 {
		port = DefaultPort
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.withdraw()

	reg, err := zeroconf.Register(instance, ServiceType, Domain, port,
		TXTRecordsToStrings(EncodeControlTXT(info)),
		selectInterface(a.cfg.Interface),
		zeroconf.TTL(uint32(a.cfg.TTL/time.Second)),
	)
	if err != nil {
		return fmt.Errorf("register %s: %w", instance, err)
	}
	a.reg = reg
	if a.cfg.Slog != nil {
		a.cfg.Slog.Debug("advertising control channel", "instance", instance, "port", port)
	}
	return nil
}

// Update republishes the TXT records, e.g. after a MAC address change.
func (a *MDNSAdvertiser) Update(info *ControlInfo) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.reg == nil {
		return ErrNotAdvertising
	}
	a.reg.SetText(TXTRecordsToStrings(EncodeControlTXT(info)))
	return nil
}

// Stop withdraws the announcement.
func (a *MDNSAdvertiser) Stop() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.withdraw()
	return nil
}

func (a *MDNSAdvertiser) withdraw() {
	if a.reg != nil {
		a.reg.Shutdown()
		a.reg = nil
	}
}

// selectInterface returns the named interface, or nil (all interfaces)
// for an empty or unknown name.
func selectInterface(name string) []net.Interface {
	if name == "" {
		return nil
	}
	iface, err := net.InterfaceByName(name)
	if err != nil {
		return nil
	}
	return []net.Interface{*iface}
}

var _ Advertiser = (*MDNSAdvertiser)(nil)
