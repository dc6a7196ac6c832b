package discovery

import (
	"context"
	"fmt"

	"github.com/enbility/zeroconf/v3"
)

// BrowserConfig configures an MDNSBrowser.
type BrowserConfig struct {
	// Interface limits browsing to one network interface.
	Interface string
}

// MDNSBrowser finds control channels over mDNS.
type MDNSBrowser struct {
	cfg BrowserConfig
}

// NewMDNSBrowser creates a browser.
func NewMDNSBrowser(config BrowserConfig) *MDNSBrowser {
	return &MDNSBrowser{cfg: config}
}

// Browse sends each control channel once, the first time it is seen.
// Later answers for a known instance only add addresses. The channel is
// closed when ctx is done.
func (b *MDNSBrowser) Browse(ctx context.Context) (<-chan *ControlService, error) {
	var opts []zeroconf.ClientOption
	if ifaces := selectInterface(b.cfg.Interface); ifaces != nil {
		opts = append(opts, zeroconf.SelectIfaces(ifaces))
	}

	found := make(chan *zeroconf.ServiceEntry)
	lost := make(chan *zeroconf.ServiceEntry)
	out := make(chan *ControlService)

	go func() {
		defer close(out)
		seen := seenServices{}
		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-found:
				if !ok {
					return
				}
				svc := seen.add(e)
				if svc == nil {
					continue
				}
				select {
				case out <- svc:
				case <-ctx.Done():
					return
				}
			case e, ok := <-lost:
				if ok {
					seen.remove(e)
				}
			}
		}
	}()

	go func() {
		_ = zeroconf.Browse(ctx, ServiceType, Domain, found, lost, opts...)
	}()
	return out, nil
}

// FindByDeviceID browses until the channel of deviceID shows up. An empty
// deviceID takes the first channel found.
func (b *MDNSBrowser) FindByDeviceID(ctx context.Context, deviceID string) (*ControlService, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results, err := b.Browse(ctx)
	if err != nil {
		return nil, err
	}
	return firstMatch(ctx, results, deviceID)
}

func firstMatch(ctx context.Context, results <-chan *ControlService, deviceID string) (*ControlService, error) {
	for {
		select {
		case svc, ok := <-results:
			if !ok {
				if err := ctx.Err(); err != nil {
					return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
				}
				return nil, ErrNotFound
			}
			if deviceID == "" || svc.DeviceID == deviceID {
				return svc, nil
			}
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", ErrNotFound, ctx.Err())
		}
	}
}

// seenServices tracks announced instances by name during one browse.
type seenServices map[string]*ControlService

// add records e. It returns the service when the instance is new, nil when
// e only refreshed a known instance or carried no usable control TXT.
func (s seenServices) add(e *zeroconf.ServiceEntry) *ControlService {
	svc := entryToService(e)
	if svc == nil {
		return nil
	}
	known, ok := s[svc.InstanceName]
	if !ok {
		s[svc.InstanceName] = svc
		return svc
	}
	for _, addr := range svc.Addresses {
		if !contains(known.Addresses, addr) {
			known.Addresses = append(known.Addresses, addr)
		}
	}
	return nil
}

// remove drops the addresses in e, forgetting the instance once none are
// left.
func (s seenServices) remove(e *zeroconf.ServiceEntry) {
	known, ok := s[e.Instance]
	if !ok {
		return
	}
	gone := entryAddresses(e)
	kept := known.Addresses[:0]
	for _, addr := range known.Addresses {
		if !contains(gone, addr) {
			kept = append(kept, addr)
		}
	}
	known.Addresses = kept
	if len(kept) == 0 {
		delete(s, e.Instance)
	}
}

// entryToService converts a zeroconf entry. Entries with unusable TXT
// records yield nil.
func entryToService(e *zeroconf.ServiceEntry) *ControlService {
	info, err := DecodeControlTXT(StringsToTXTRecords(e.Text))
	if err != nil {
		return nil
	}
	info.Port = uint16(e.Port)
	return &ControlService{
		InstanceName: e.Instance,
		Host:         e.HostName,
		Port:         uint16(e.Port),
		Addresses:    entryAddresses(e),
		ControlInfo:  *info,
	}
}

// entryAddresses lists IPv4 addresses before IPv6 ones.
func entryAddresses(e *zeroconf.ServiceEntry) []string {
	addrs := make([]string, 0, len(e.AddrIPv4)+len(e.AddrIPv6))
	for _, ip := range e.AddrIPv4 {
		addrs = append(addrs, ip.String())
	}
	for _, ip := range e.AddrIPv6 {
		addrs = append(addrs, ip.String())
	}
	return addrs
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

var _ Browser = (*MDNSBrowser)(nil)
