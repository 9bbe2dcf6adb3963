// Package datekey turns the free-text dates stored on transactions into
// zero-padded YYYY-MM-DD keys that sort lexically in chronological order.
package datekey

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Layout is the canonical key layout.
const Layout = "2006-01-02"

// HeaderLayout renders a key as a long-form section header.
const HeaderLayout = "Monday, January 2, 2006"

var (
	isoPattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	usPattern  = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
)

// Normalize converts a date string into its canonical key.
//
// YYYY-MM-DD is returned unchanged, M/D/YYYY is rewritten and zero-padded,
// and anything else goes through a best-effort parse in local time. Text that
// cannot be parsed comes back unchanged so the row can still be shown.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	if isoPattern.MatchString(s) {
		if _, err := time.Parse(Layout, s); err == nil {
			return s
		}
	}
	if m := usPattern.FindStringSubmatch(s); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		return key(year, month, day)
	}

	t, err := dateparse.ParseLocal(strings.TrimSpace(s))
	if err != nil {
		return s
	}
	return key(t.Year(), int(t.Month()), t.Day())
}

// IsCanonical reports whether s is a valid YYYY-MM-DD key.
func IsCanonical(s string) bool {
	if !isoPattern.MatchString(s) {
		return false
	}
	_, err := time.Parse(Layout, s)
	return err == nil
}

// Format renders a canonical key as a human-readable header.
// Non-canonical text is returned as-is.
func Format(k string) string {
	if !IsCanonical(k) {
		return k
	}
	t, err := time.ParseInLocation(Layout, k, time.Local)
	if err != nil {
		return k
	}
	return t.Format(HeaderLayout)
}

// FromTime returns the key for a point in time, in its own location.
func FromTime(t time.Time) string {
	return key(t.Year(), int(t.Month()), t.Day())
}

func key(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}
