package cli

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineReader_ReadLine(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr error
	}{
		{name: "single line", input: "Amex\n", want: []string{"Amex"}, wantErr: io.EOF},
		{name: "trims whitespace", input: "  12.50  \n", want: []string{"12.50"}, wantErr: io.EOF},
		{name: "blank line keeps default", input: "\n", want: []string{""}, wantErr: io.EOF},
		{name: "unterminated last line", input: "y", want: []string{"y"}, wantErr: io.EOF},
		{name: "several lines", input: "me\nyou\nus\n", want: []string{"me", "you", "us"}, wantErr: io.EOF},
		{name: "no input", input: "", wantErr: io.EOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewLineReader(strings.NewReader(tt.input))
			ctx := context.Background()

			for _, want := range tt.want {
				got, err := r.ReadLine(ctx)
				require.NoError(t, err)
				assert.Equal(t, want, got)
			}
			_, err := r.ReadLine(ctx)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLineReader_Cancellation(t *testing.T) {
	t.Run("already canceled", func(t *testing.T) {
		r := NewLineReader(strings.NewReader("ignored\n"))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := r.ReadLine(ctx)
		assert.ErrorIs(t, err, ErrInputCancelled)
	})

	t.Run("late line is kept for the next read", func(t *testing.T) {
		pr, pw := io.Pipe()
		defer func() { _ = pw.Close() }()
		r := NewLineReader(pr)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, err := r.ReadLine(ctx)
		require.ErrorIs(t, err, ErrInputCancelled)

		go func() { _, _ = io.WriteString(pw, "late\n") }()
		got, err := r.ReadLine(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "late", got)
	})
}
