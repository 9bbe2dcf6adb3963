// Package themes holds the color schemes of the terminal UI.
package themes

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Italic        lipgloss.Style
	Selected      lipgloss.Style
	Highlighted   lipgloss.Style
	GroupHeader   lipgloss.Style
	Badge         lipgloss.Style
	PaidBadge     lipgloss.Style
	UnpaidBadge   lipgloss.Style
	Deposit       lipgloss.Style
	Expense       lipgloss.Style
	BorderedBox   lipgloss.Style
	RoundedBox    lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusWarning lipgloss.Style
	StatusError   lipgloss.Style
	StatusInfo    lipgloss.Style
	Primary       lipgloss.Color
	Muted         lipgloss.Color
	Foreground    lipgloss.Color
	Info          lipgloss.Color
	Error         lipgloss.Color
	Success       lipgloss.Color
}

type palette struct {
	primary, secondary, success, warning, errorColor, info lipgloss.Color
	foreground, subtle, border, muted, highlight, onPrimary lipgloss.Color
}

func build(p palette) Theme {
	return Theme{
		Primary:    p.primary,
		Success:    p.success,
		Error:      p.errorColor,
		Info:       p.info,
		Foreground: p.foreground,
		Muted:      p.muted,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.foreground).
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Foreground(p.subtle),
		Normal: lipgloss.NewStyle().
			Foreground(p.foreground),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.foreground),
		Italic: lipgloss.NewStyle().
			Italic(true).
			Foreground(p.muted),
		Selected: lipgloss.NewStyle().
			Background(p.primary).
			Foreground(p.onPrimary).
			Bold(true),
		Highlighted: lipgloss.NewStyle().
			Background(p.highlight).
			Foreground(p.foreground),
		GroupHeader: lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			Foreground(p.secondary),
		Badge: lipgloss.NewStyle().
			Foreground(p.info).
			Padding(0, 1),
		PaidBadge: lipgloss.NewStyle().
			Foreground(p.success).
			Padding(0, 1),
		UnpaidBadge: lipgloss.NewStyle().
			Foreground(p.warning).
			Padding(0, 1),
		Deposit: lipgloss.NewStyle().
			Foreground(p.success).
			Bold(true),
		Expense: lipgloss.NewStyle().
			Foreground(p.foreground),

		BorderedBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(p.border).
			Padding(0, 1),
		RoundedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(1, 2),

		StatusSuccess: lipgloss.NewStyle().
			Foreground(p.success).
			Bold(true),
		StatusWarning: lipgloss.NewStyle().
			Foreground(p.warning).
			Bold(true),
		StatusError: lipgloss.NewStyle().
			Foreground(p.errorColor).
			Bold(true),
		StatusInfo: lipgloss.NewStyle().
			Foreground(p.info).
			Bold(true),
	}
}

// Default is the default theme.
var Default = build(palette{
	primary:    lipgloss.Color("#7c3aed"),
	secondary:  lipgloss.Color("#a78bfa"),
	success:    lipgloss.Color("#10b981"),
	warning:    lipgloss.Color("#f59e0b"),
	errorColor: lipgloss.Color("#ef4444"),
	info:       lipgloss.Color("#3b82f6"),
	foreground: lipgloss.Color("#fafafa"),
	subtle:     lipgloss.Color("#a3a3a3"),
	border:     lipgloss.Color("#404040"),
	muted:      lipgloss.Color("#737373"),
	highlight:  lipgloss.Color("#404040"),
	onPrimary:  lipgloss.Color("#fafafa"),
})

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = build(palette{
	primary:    lipgloss.Color("#cba6f7"),
	secondary:  lipgloss.Color("#f5c2e7"),
	success:    lipgloss.Color("#a6e3a1"),
	warning:    lipgloss.Color("#f9e2af"),
	errorColor: lipgloss.Color("#f38ba8"),
	info:       lipgloss.Color("#89dceb"),
	foreground: lipgloss.Color("#cdd6f4"),
	subtle:     lipgloss.Color("#a6adc8"),
	border:     lipgloss.Color("#45475a"),
	muted:      lipgloss.Color("#6c7086"),
	highlight:  lipgloss.Color("#45475a"),
	onPrimary:  lipgloss.Color("#1e1e2e"),
})

// ErrUnknownTheme is returned by ByName for an unregistered name.
var ErrUnknownTheme = errors.New("unknown theme")

var registry = map[string]Theme{
	"default":          Default,
	"catppuccin-mocha": CatppuccinMocha,
}

// ByName looks a theme up by its configured name. Empty selects Default.
func ByName(name string) (Theme, error) {
	if name == "" {
		return Default, nil
	}
	t, ok := registry[name]
	if !ok {
		return Default, fmt.Errorf("%w %q (have %s)", ErrUnknownTheme, name, strings.Join(Names(), ", "))
	}
	return t, nil
}

// Names lists the registered theme names, sorted.
func Names() []string {
	return slices.Sorted(maps.Keys(registry))
}
