// Package logging provides the structured logging sink used by the core.
package logging

import (
	"fmt"
	"log"
	"sort"
	"strings"
)

// Level is the severity of a log record.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Sink is the narrow interface the core logs through. Hosts supply their
// own implementation; the core never reaches for a global logger.
type Sink interface {
	Log(level Level, event string, fields map[string]any)
}

// DebugEnabled controls whether StdSink emits LevelDebug records.
// Set by the host; cmd/tn5250term sets it from its -debug flag.
var DebugEnabled bool

// StdSink is a Sink backed by the standard library's log package, in the
// same style as the teacher's single global Debug() helper: no external
// logging dependency, just log.Printf with a level prefix.
type StdSink struct{}

// Log implements Sink.
func (StdSink) Log(level Level, event string, fields map[string]any) {
	if level == LevelDebug && !DebugEnabled {
		return
	}
	log.Printf("%s: %s%s", level, event, formatFields(fields))
}

func formatFields(fields map[string]any) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}
	return b.String()
}

// NopSink discards every record. Useful for tests that don't care about logs.
type NopSink struct{}

// Log implements Sink.
func (NopSink) Log(Level, string, map[string]any) {}

// Debug logs a message only when DebugEnabled is true, preserved from the
// teacher's original helper for call sites that don't hold a Sink.
func Debug(format string, args ...any) {
	if DebugEnabled {
		log.Printf("DEBUG: "+format, args...)
	}
}
