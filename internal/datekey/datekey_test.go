package datekey

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "canonical passes through", input: "2024-03-05", want: "2024-03-05"},
		{name: "us short form is padded", input: "3/5/2024", want: "2024-03-05"},
		{name: "us padded form", input: "01/01/2024", want: "2024-01-01"},
		{name: "us two digit month one digit day", input: "12/7/2023", want: "2023-12-07"},
		{name: "long month name falls back to generic parse", input: "March 5, 2024", want: "2024-03-05"},
		{name: "empty stays empty", input: "", want: ""},
		{name: "garbage is returned unchanged", input: "not a date", want: "not a date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"2024-03-05", "1999-12-31", "2000-02-29",
		"3/5/2024", "03/05/2024", "12/31/1999", "2/29/2000", "10/1/2023",
	}

	for _, in := range inputs {
		once := Normalize(in)
		assert.True(t, IsCanonical(once), "%q normalized to non-canonical %q", in, once)
		assert.Equal(t, once, Normalize(once), "normalize(%q) is not idempotent", in)
	}
}

func TestNormalize_Pure(t *testing.T) {
	for i := 0; i < 3; i++ {
		assert.Equal(t, "2024-01-02", Normalize("1/2/2024"))
	}
}

func TestNormalize_LexicalOrderIsChronological(t *testing.T) {
	earlier := Normalize("9/30/2024")
	later := Normalize("10/1/2024")
	assert.Less(t, earlier, later)
}

func TestIsCanonical(t *testing.T) {
	assert.True(t, IsCanonical("2024-03-05"))
	assert.False(t, IsCanonical("2024-3-5"))
	assert.False(t, IsCanonical("2024-13-01"))
	assert.False(t, IsCanonical("3/5/2024"))
	assert.False(t, IsCanonical(""))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "Tuesday, March 5, 2024", Format("2024-03-05"))
	assert.Equal(t, "someday", Format("someday"))
	assert.Equal(t, "", Format(""))
}

func TestFromTime(t *testing.T) {
	assert.Equal(t, "2024-01-09", FromTime(time.Date(2024, 1, 9, 23, 59, 0, 0, time.UTC)))
}
