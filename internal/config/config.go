// Package config loads and hot-reloads the session/device profile that
// configures a connection: host, port, protocol, screen size, and
// terminal-type/NEW-ENVIRON overrides. This is ambient infrastructure
// spec.md explicitly places outside the core (§1 "session-profile
// persistence, configuration parsing... are NOT part of the core") — it
// exists only to give cmd/tn5250term something real to load, the same
// role the teacher's internal/config/config.go plays for cmd/vision3.
//
// JSON shape and load/save style are grounded directly on the teacher's
// LoadServerConfig/SaveServerConfig pair (internal/config/config.go):
// read with a default fallback when the file is absent, log through the
// standard log package, write back with json.MarshalIndent.
package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/stlalpha/tn5250r/internal/display"
)

// Protocol selects which block-mode protocol a DeviceProfile dials.
type Protocol string

const (
	Protocol5250 Protocol = "5250"
	Protocol3270 Protocol = "3270"
)

// DeviceProfile is the on-disk connection profile (spec.md SPEC_FULL §3
// "ambient Config").
type DeviceProfile struct {
	Host     string   `json:"host"`
	Port     int      `json:"port"`
	Protocol Protocol `json:"protocol"`

	ScreenRows int `json:"screenRows"`
	ScreenCols int `json:"screenCols"`

	// TermTypes overrides the negotiator's terminal-type cycle list
	// (spec.md §4.2). Empty means use the protocol's default list.
	TermTypes []string `json:"termTypes,omitempty"`

	// EnvOverrides seeds NEW-ENVIRON VAR values (spec.md §4.2) beyond the
	// well-known empty defaults, e.g. {"USER": "GUEST"}.
	EnvOverrides map[string]string `json:"envOverrides,omitempty"`

	// UserVarOverrides seeds NEW-ENVIRON USERVAR values, e.g. DEVNAME.
	UserVarOverrides map[string]string `json:"userVarOverrides,omitempty"`
}

// defaultProfile is returned by Load when the profile file does not
// exist, mirroring the teacher's LoadServerConfig fallback behavior.
func defaultProfile() DeviceProfile {
	return DeviceProfile{
		Host:       "localhost",
		Port:       23,
		Protocol:   Protocol5250,
		ScreenRows: display.Size5250.Rows,
		ScreenCols: display.Size5250.Cols,
	}
}

// ScreenSize returns the profile's configured screen dimensions as a
// display.Size, falling back to the 5250 default if unset.
func (p DeviceProfile) ScreenSize() display.Size {
	if p.ScreenRows == 0 || p.ScreenCols == 0 {
		return display.Size5250
	}
	return display.Size{Rows: p.ScreenRows, Cols: p.ScreenCols}
}

// Load reads a DeviceProfile from path, returning defaultProfile() if the
// file does not exist (spec.md SPEC_FULL §3, teacher's LoadServerConfig).
func Load(path string) (DeviceProfile, error) {
	def := defaultProfile()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("INFO: profile %s not found, using defaults", path)
			return def, nil
		}
		return def, fmt.Errorf("config: read %s: %w", path, err)
	}
	profile := def
	if err := json.Unmarshal(data, &profile); err != nil {
		return def, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return profile, nil
}

// Save writes profile to path as indented JSON, creating parent
// directories as needed (teacher's SaveServerConfig).
func Save(path string, profile DeviceProfile) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: mkdir %s: %w", dir, err)
		}
	}
	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	log.Printf("INFO: profile saved to %s", path)
	return nil
}
