package discovery

import (
	"context"
	"errors"
	"net"
	"strconv"
	"time"
)

const (
	// ServiceType is the DNS-SD service type of the control channel.
	ServiceType = "_lan865x-ctl._tcp"

	// Domain is the mDNS domain.
	Domain = "local."

	// DefaultPort is the default control channel port.
	DefaultPort = 8651
)

// TXT record keys.
const (
	TXTKeyDeviceID    = "DI"
	TXTKeyDriver      = "DRV"
	TXTKeyVersion     = "VER"
	TXTKeyMAC         = "MAC"
	TXTKeyRegisterOps = "RO"
)

const (
	// BrowseTimeout is the default timeout for mDNS browsing.
	BrowseTimeout = 5 * time.Second

	// MaxInstanceNameLen is the DNS label limit.
	MaxInstanceNameLen = 63

	// DefaultTTL is the advertised record TTL.
	DefaultTTL = 120 * time.Second
)

// Errors.
var (
	ErrInvalidTXTRecord    = errors.New("invalid TXT record format")
	ErrMissingRequired     = errors.New("missing required field")
	ErrInstanceNameTooLong = errors.New("instance name exceeds 63 characters")
	ErrNotFound            = errors.New("service not found")
	ErrNotAdvertising      = errors.New("not advertising")
)

// ControlInfo is what a device publishes about its control channel.
type ControlInfo struct {
	DeviceID    string
	Driver      string
	Version     string
	MAC         string
	RegisterOps bool
	Port        uint16
}

// ControlService is a control channel found by browsing.
type ControlService struct {
	InstanceName string
	Host         string
	Port         uint16
	Addresses    []string

	ControlInfo
}

// DialAddress returns host:port for the first known address, or for the
// host name when no address was resolved.
func (s *ControlService) DialAddress() string {
	host := s.Host
	if len(s.Addresses) > 0 {
		host = s.Addresses[0]
	}
	return net.JoinHostPort(host, strconv.Itoa(int(s.Port)))
}

// Advertiser publishes a control channel.
type Advertiser interface {
	Advertise(ctx context.Context, info *ControlInfo) error
	Update(info *ControlInfo) error
	Stop() error
}

// Browser finds control channels.
type Browser interface {
	Browse(ctx context.Context) (<-chan *ControlService, error)
	FindByDeviceID(ctx context.Context, deviceID string) (*ControlService, error)
}
