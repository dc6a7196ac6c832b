// Package config loads the device daemon configuration from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/t1s-tools/lan865x-go/pkg/hashfilter"
	"github.com/t1s-tools/lan865x-go/pkg/reg"
	"github.com/t1s-tools/lan865x-go/pkg/regio"
	"github.com/t1s-tools/lan865x-go/pkg/sim"
	"github.com/t1s-tools/lan865x-go/pkg/transport"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is the device daemon configuration.
type Config struct {
	// DeviceID names the device in logs and mDNS.
	DeviceID string `yaml:"device_id"`

	// Driver is the name reported to Identify.
	Driver string `yaml:"driver"`

	// Listen is the control channel address.
	Listen string `yaml:"listen"`

	// RegisterOps enables raw register access over the control channel.
	RegisterOps bool `yaml:"register_ops"`

	// RequestTimeout bounds one control request.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// MAC is the initial station address. Empty means random, unless a
	// saved one exists in the state file.
	MAC string `yaml:"mac"`

	// DebugEnabled is the initial debug gate.
	DebugEnabled bool `yaml:"debug_enabled"`

	// StateFile persists the committed MAC and the debug gate. Empty
	// disables persistence.
	StateFile string `yaml:"state_file"`

	// ProtocolLog is the register access trace file (.rlog). Empty
	// disables it.
	ProtocolLog string `yaml:"protocol_log"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	MDNS MDNS `yaml:"mdns"`

	// Faults are injected into the simulated chip at startup.
	Faults []Fault `yaml:"faults"`
}

// MDNS configures control channel advertisement.
type MDNS struct {
	Advertise bool   `yaml:"advertise"`
	Instance  string `yaml:"instance"`
	Interface string `yaml:"interface"`
}

// Fault describes one simulated register fault.
type Fault struct {
	Op       string `yaml:"op"`       // read, write or any
	Register string `yaml:"register"` // name or hex address
	Skip     int    `yaml:"skip"`
	Count    int    `yaml:"count"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		DeviceID:       "lan865x0",
		Driver:         regio.DefaultDriver,
		Listen:         transport.DefaultAddress,
		RegisterOps:    true,
		RequestTimeout: 5 * time.Second,
		DebugEnabled:   true,
		LogLevel:       "info",
	}
}

// Load reads path and applies it on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML on top of the defaults and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	// An empty file has no document and means all defaults.
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	if c.DeviceID == "" {
		return fmt.Errorf("%w: device_id is empty", ErrInvalid)
	}
	if c.Driver == "" {
		return fmt.Errorf("%w: driver is empty", ErrInvalid)
	}
	if _, _, err := net.SplitHostPort(c.Listen); err != nil {
		return fmt.Errorf("%w: listen %q: %v", ErrInvalid, c.Listen, err)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request_timeout must be positive", ErrInvalid)
	}
	if _, _, err := c.StationAddr(); err != nil {
		return err
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel)
	}
	if _, err := c.SimFaults(); err != nil {
		return err
	}
	return nil
}

// StationAddr parses MAC. ok is false when MAC is empty.
func (c *Config) StationAddr() (addr hashfilter.HardwareAddr, ok bool, err error) {
	if c.MAC == "" {
		return addr, false, nil
	}
	addr, err = hashfilter.ParseHardwareAddr(c.MAC)
	if err != nil {
		return addr, false, fmt.Errorf("%w: mac: %w", ErrInvalid, err)
	}
	if addr.IsMulticast() {
		return addr, false, fmt.Errorf("%w: mac %s is multicast", ErrInvalid, addr)
	}
	return addr, true, nil
}

// SimFaults converts Faults for the simulated chip.
func (c *Config) SimFaults() ([]sim.Fault, error) {
	out := make([]sim.Fault, 0, len(c.Faults))
	for i, f := range c.Faults {
		op, err := sim.ParseOp(f.Op)
		if err != nil {
			return nil, fmt.Errorf("%w: faults[%d]: %w", ErrInvalid, i, err)
		}
		addr, err := reg.ParseAddress(f.Register)
		if err != nil {
			return nil, fmt.Errorf("%w: faults[%d]: %w", ErrInvalid, i, err)
		}
		if f.Skip < 0 || f.Count < 0 {
			return nil, fmt.Errorf("%w: faults[%d]: negative skip or count", ErrInvalid, i)
		}
		out = append(out, sim.Fault{Op: op, Addr: addr, Skip: f.Skip, Count: f.Count})
	}
	return out, nil
}
