// Command tn5250term is the CLI harness spec.md's SPEC_FULL §1 calls for:
// a minimal, real demonstration of the core's external collaborators
// (TCP socket acquisition, profile config, terminal rendering) without
// the core itself depending on any of them. Grounded on the teacher's
// cmd/config/main.go flag style plus its bubbletea.Program bootstrap
// (there driving internal/configeditor's multi-pane editor; here driving
// a single fixed-grid terminal view over model in model.go).
package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/stlalpha/tn5250r/internal/config"
	"github.com/stlalpha/tn5250r/internal/logging"
	"github.com/stlalpha/tn5250r/internal/session"
)

func main() {
	host := flag.String("host", "", "host to connect to (overrides profile)")
	port := flag.Int("port", 0, "port to connect to (overrides profile)")
	protocol := flag.String("protocol", "", "5250 or 3270 (overrides profile)")
	profilePath := flag.String("profile", "", "path to a device-profile JSON file")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	logging.DebugEnabled = *debug
	sink := logging.StdSink{}

	profile := resolveProfile(*profilePath, sink)
	if *host != "" {
		profile.Host = *host
	}
	if *port != 0 {
		profile.Port = *port
	}
	if *protocol != "" {
		profile.Protocol = config.Protocol(*protocol)
	}

	mode := session.Mode5250
	if profile.Protocol == config.Protocol3270 {
		mode = session.Mode3270
	}

	conn, err := net.DialTimeout("tcp", fmt.Sprintf("%s:%d", profile.Host, profile.Port), 10*time.Second)
	if err != nil {
		log.Fatalf("dial %s:%d: %v", profile.Host, profile.Port, err)
	}
	defer conn.Close()

	sess := session.New(mode, profile.ScreenSize(), sink)
	sess.SetTermTypes(profile.TermTypes)
	for name, value := range profile.EnvOverrides {
		sess.SetEnvVar(name, value)
	}
	for name, value := range profile.UserVarOverrides {
		sess.SetEnvUserVar(name, value)
	}
	if _, err := conn.Write(sess.Start()); err != nil {
		log.Fatalf("write initial negotiation: %v", err)
	}

	p := tea.NewProgram(newModel(conn, sess), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("tn5250term: %v", err)
	}
}

func resolveProfile(path string, sink logging.Sink) config.DeviceProfile {
	if path == "" {
		p, _ := config.Load("")
		return p
	}
	w, err := config.NewWatcher(path, func(p config.DeviceProfile) {
		sink.Log(logging.LevelInfo, "cmd.profileReloaded", map[string]any{"host": p.Host, "port": p.Port})
	})
	if err != nil {
		log.Fatalf("load profile %s: %v", path, err)
	}
	return w.Profile()
}
