package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReloadsOnWrite(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "profile.json")
	if err := Save(path, DeviceProfile{Host: "a", Port: 1, Protocol: Protocol5250}); err != nil {
		t.Fatal(err)
	}

	reloaded := make(chan DeviceProfile, 1)
	w, err := NewWatcher(path, func(p DeviceProfile) {
		select {
		case reloaded <- p:
		default:
		}
	})
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Stop()

	if w.Profile().Host != "a" {
		t.Fatalf("initial Profile().Host = %q, want a", w.Profile().Host)
	}

	if err := Save(path, DeviceProfile{Host: "b", Port: 2, Protocol: Protocol3270}); err != nil {
		t.Fatal(err)
	}

	select {
	case p := <-reloaded:
		if p.Host != "b" {
			t.Errorf("reloaded profile Host = %q, want b", p.Host)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for reload callback")
	}
}
