// Package testing provides helpers for driving Bubble Tea models in tests
// without a terminal.
package testing

import (
	"reflect"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// maxRounds bounds how many command generations Send follows, so a model
// that keeps scheduling work cannot hang a test.
const maxRounds = 32

// DefaultCommandTimeout is how long a single command may run before its
// result is abandoned. Timers such as cursor blinks never finish in time.
const DefaultCommandTimeout = 100 * time.Millisecond

// TestRenderer feeds messages to a model and runs the commands it returns
// synchronously.
type TestRenderer struct {
	// Output contains the last rendered view
	Output string

	// Messages contains every message delivered to the model
	Messages []tea.Msg

	// Quit is set once the model asks the program to exit
	Quit bool

	// CommandTimeout bounds each command; see DefaultCommandTimeout
	CommandTimeout time.Duration

	skip []reflect.Type
}

// NewTestRenderer creates a renderer. Messages of the same type as any of
// skip are dropped instead of delivered; use it for timers such as spinner
// ticks or delayed status clears.
func NewTestRenderer(skip ...tea.Msg) *TestRenderer {
	r := &TestRenderer{CommandTimeout: DefaultCommandTimeout}
	for _, s := range skip {
		r.skip = append(r.skip, reflect.TypeOf(s))
	}
	return r
}

// Send delivers msg, then executes the resulting commands and delivers
// their messages until no work remains.
func (r *TestRenderer) Send(model tea.Model, msg tea.Msg) tea.Model {
	queue := []tea.Msg{msg}

	for round := 0; len(queue) > 0 && round < maxRounds; round++ {
		var next []tea.Msg
		for _, m := range queue {
			if r.skipped(m) {
				continue
			}
			if _, ok := m.(tea.QuitMsg); ok {
				r.Quit = true
				continue
			}

			r.Messages = append(r.Messages, m)
			var cmd tea.Cmd
			model, cmd = model.Update(m)
			next = append(next, r.run(cmd)...)
		}
		queue = next
	}

	r.Output = model.View()
	return model
}

// Init runs the model's Init command and delivers what it produces.
func (r *TestRenderer) Init(model tea.Model) tea.Model {
	for _, msg := range r.run(model.Init()) {
		model = r.Send(model, msg)
	}
	r.Output = model.View()
	return model
}

// Type sends each rune of text as its own key press.
func (r *TestRenderer) Type(model tea.Model, text string) tea.Model {
	for _, ch := range text {
		model = r.Send(model, KeyPress(string(ch)))
	}
	return model
}

// run executes cmd, expanding batches, and returns the produced messages.
// Commands that outlive CommandTimeout produce nothing.
func (r *TestRenderer) run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(r.CommandTimeout):
		return nil
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, r.run(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func (r *TestRenderer) skipped(msg tea.Msg) bool {
	t := reflect.TypeOf(msg)
	for _, s := range r.skip {
		if s == t {
			return true
		}
	}
	return false
}

// StripANSI returns the last output without escape codes.
func (r *TestRenderer) StripANSI() string {
	return StripANSI(r.Output)
}

// Lines returns the output split by newlines.
func (r *TestRenderer) Lines() []string {
	return strings.Split(r.Output, "\n")
}
