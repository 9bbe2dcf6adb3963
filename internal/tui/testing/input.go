package testing

import (
	tea "github.com/charmbracelet/bubbletea"
)

// namedKeys maps the names bubbletea prints for special keys back to
// their key types.
var namedKeys = func() map[string]tea.KeyType {
	types := []tea.KeyType{
		tea.KeyEnter, tea.KeyEsc, tea.KeyTab, tea.KeyShiftTab, tea.KeyBackspace,
		tea.KeyUp, tea.KeyDown, tea.KeyLeft, tea.KeyRight, tea.KeySpace,
		tea.KeyPgUp, tea.KeyPgDown,
		tea.KeyCtrlC, tea.KeyCtrlE, tea.KeyCtrlR, tea.KeyCtrlS, tea.KeyCtrlU, tea.KeyCtrlX,
	}
	m := make(map[string]tea.KeyType, len(types))
	for _, t := range types {
		m[t.String()] = t
	}
	return m
}()

// Key builds the message for a named key such as "enter", "shift+tab" or
// "ctrl+u". Anything else is typed as runes.
func Key(name string) tea.KeyMsg {
	if t, ok := namedKeys[name]; ok {
		return tea.KeyMsg{Type: t}
	}
	return KeyPress(name)
}

// KeyPress types text as a single message, the way a paste arrives.
func KeyPress(text string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)}
}

// WindowSize resizes the terminal.
func WindowSize(width, height int) tea.WindowSizeMsg {
	return tea.WindowSizeMsg{Width: width, Height: height}
}
