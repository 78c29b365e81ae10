package main

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
)

// keyMap is the harness's keybinding table, grounded on the teacher's
// configtool/strings.KeyMap: one key.Binding per session action, each
// carrying its own help text.
type keyMap struct {
	Quit    key.Binding
	Enter   key.Binding
	Clear   key.Binding
	Tab     key.Binding
	Backtab key.Binding
	PF      [24]key.Binding
}

func defaultKeyMap() keyMap {
	k := keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+d", "ctrl+c"),
			key.WithHelp("ctrl+d", "quit"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Clear: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		Backtab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev field"),
		),
	}
	// PF1-PF12 map to the terminal's function keys directly; PF13-PF24
	// are their shifted counterparts, the same convention tn3270/tn5250
	// emulators have used since 3270 PC keyboards.
	fKeys := []string{
		"f1", "f2", "f3", "f4", "f5", "f6", "f7", "f8", "f9", "f10", "f11", "f12",
	}
	for i, fk := range fKeys {
		k.PF[i] = key.NewBinding(key.WithKeys(fk), key.WithHelp(fk, pfHelp(i+1)))
		k.PF[i+12] = key.NewBinding(key.WithKeys("shift+"+fk), key.WithHelp("shift+"+fk, pfHelp(i+13)))
	}
	return k
}

func pfHelp(n int) string {
	return "PF" + strconv.Itoa(n)
}
