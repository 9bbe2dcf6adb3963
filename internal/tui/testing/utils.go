package testing

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// StripANSI removes styling so assertions can match plain text.
func StripANSI(s string) string {
	return ansi.Strip(s)
}

// ContainsInOrder reports whether every expected string appears in output,
// each after the end of the previous one.
func ContainsInOrder(output string, expected ...string) bool {
	rest := output
	for _, exp := range expected {
		_, after, found := strings.Cut(rest, exp)
		if !found {
			return false
		}
		rest = after
	}
	return true
}
