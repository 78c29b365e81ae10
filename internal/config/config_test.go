package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadProfile_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "profile.json")
	profile := DeviceProfile{Host: "mainframe.example.com", Port: 23, Protocol: Protocol3270, ScreenRows: 32, ScreenCols: 80}
	data, _ := json.Marshal(profile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Host != "mainframe.example.com" || got.Port != 23 || got.Protocol != Protocol3270 {
		t.Errorf("Load = %+v, want host/port/protocol preserved", got)
	}
	if got.ScreenSize().Rows != 32 {
		t.Errorf("ScreenSize().Rows = %d, want 32", got.ScreenSize().Rows)
	}
}

func TestLoadProfile_MissingFileReturnsDefault(t *testing.T) {
	got, err := Load(filepath.Join(t.TempDir(), "does-not-exist.json"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if got.Protocol != Protocol5250 {
		t.Errorf("default Protocol = %v, want %v", got.Protocol, Protocol5250)
	}
	if got.ScreenSize().Rows != 24 || got.ScreenSize().Cols != 80 {
		t.Errorf("default ScreenSize = %+v, want 24x80", got.ScreenSize())
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "profile.json")
	profile := DeviceProfile{
		Host:             "as400.example.com",
		Port:             2323,
		Protocol:         Protocol5250,
		ScreenRows:       24,
		ScreenCols:       80,
		TermTypes:        []string{"IBM-3179-2"},
		EnvOverrides:     map[string]string{"USER": "GUEST"},
		UserVarOverrides: map[string]string{"DEVNAME": "TN5250R"},
	}
	if err := Save(path, profile); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.EnvOverrides["USER"] != "GUEST" || got.UserVarOverrides["DEVNAME"] != "TN5250R" {
		t.Errorf("round trip lost overrides: %+v", got)
	}
	if len(got.TermTypes) != 1 || got.TermTypes[0] != "IBM-3179-2" {
		t.Errorf("round trip lost TermTypes: %+v", got.TermTypes)
	}
}
