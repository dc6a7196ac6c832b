package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/t1s-tools/lan865x-go/pkg/hashfilter"
)

// StateVersion is the current version of the state file format.
const StateVersion = 1

// ErrVersion is returned when a state file was written by a newer format.
var ErrVersion = errors.New("unsupported state file version")

// DeviceState is the runtime state of the device daemon.
type DeviceState struct {
	// Version is the state file format version.
	Version int `json:"version"`

	// SavedAt is when the state was last saved.
	SavedAt time.Time `json:"saved_at"`

	// DeviceID is the device the state belongs to.
	DeviceID string `json:"device_id"`

	// MAC is the committed station address.
	MAC string `json:"mac,omitempty"`

	// DebugEnabled is the debug gate. Nil means "use the configured
	// default".
	DebugEnabled *bool `json:"debug_enabled,omitempty"`
}

// StationAddr parses MAC. ok is false when no address was saved.
func (s *DeviceState) StationAddr() (addr hashfilter.HardwareAddr, ok bool, err error) {
	if s == nil || s.MAC == "" {
		return addr, false, nil
	}
	addr, err = hashfilter.ParseHardwareAddr(s.MAC)
	if err != nil {
		return addr, false, err
	}
	return addr, true, nil
}

// DeviceStateStore manages persistence of device state to a JSON file.
type DeviceStateStore struct {
	file jsonFile
}

// NewDeviceStateStore creates a new device state store.
func NewDeviceStateStore(path string) *DeviceStateStore {
	return &DeviceStateStore{file: jsonFile{path: path}}
}

// Save persists the device state to disk.
func (s *DeviceStateStore) Save(state *DeviceState) error {
	state.Version = StateVersion
	state.SavedAt = time.Now()
	return s.file.save(state)
}

// Load reads the device state from disk.
// Returns nil, nil if the file doesn't exist (empty state).
func (s *DeviceStateStore) Load() (*DeviceState, error) {
	state := &DeviceState{}
	found, err := s.file.load(state)
	if err != nil || !found {
		return nil, err
	}
	if state.Version > StateVersion {
		return nil, fmt.Errorf("%w: %d", ErrVersion, state.Version)
	}
	return state, nil
}

// Clear removes the state file.
func (s *DeviceStateStore) Clear() error {
	return s.file.clear()
}

// ToolState is what the diagnostic tool remembers between runs.
type ToolState struct {
	Version int       `json:"version"`
	SavedAt time.Time `json:"saved_at"`

	// LastAddress is the control channel address last connected to.
	LastAddress string `json:"last_address,omitempty"`

	// LastDriver and LastVersion are the identity it reported.
	LastDriver  string `json:"last_driver,omitempty"`
	LastVersion string `json:"last_version,omitempty"`
}

// ToolStateStore manages persistence of tool state to a JSON file.
type ToolStateStore struct {
	file jsonFile
}

// NewToolStateStore creates a new tool state store.
func NewToolStateStore(path string) *ToolStateStore {
	return &ToolStateStore{file: jsonFile{path: path}}
}

// DefaultToolStatePath returns the state file under the user config
// directory.
func DefaultToolStatePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "lan865x", "regaccess.json"), nil
}

// Save persists the tool state to disk.
func (s *ToolStateStore) Save(state *ToolState) error {
	state.Version = StateVersion
	state.SavedAt = time.Now()
	return s.file.save(state)
}

// Load reads the tool state from disk.
// Returns nil, nil if the file doesn't exist (empty state).
func (s *ToolStateStore) Load() (*ToolState, error) {
	state := &ToolState{}
	found, err := s.file.load(state)
	if err != nil || !found {
		return nil, err
	}
	return state, nil
}

// jsonFile serializes access to one state file. Writes go to a temporary
// file that is renamed over the target.
type jsonFile struct {
	mu   sync.Mutex
	path string
}

func (f *jsonFile) save(v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}

func (f *jsonFile) load(v any) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", f.path, err)
	}
	return true, nil
}

func (f *jsonFile) clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := os.Remove(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
