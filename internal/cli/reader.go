package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// ErrInputCancelled is returned when a prompt is abandoned because its
// context ended.
var ErrInputCancelled = errors.New("input canceled")

type line struct {
	err  error
	text string
}

// LineReader hands out trimmed lines from an input stream while honoring
// context cancellation. A single goroutine owns the stream, so a line that
// arrives after a canceled read is kept for the next one.
type LineReader struct {
	src   *bufio.Reader
	lines chan line
	start sync.Once
}

// NewLineReader wraps r.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{src: bufio.NewReader(r), lines: make(chan line)}
}

func (r *LineReader) pump() {
	for {
		text, err := r.src.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && text != "") {
			r.lines <- line{err: err}
			close(r.lines)
			return
		}
		r.lines <- line{text: strings.TrimSpace(text)}
		if err != nil {
			// Unterminated final line; the next read sees EOF.
			r.lines <- line{err: io.EOF}
			close(r.lines)
			return
		}
	}
}

// ReadLine returns the next line without its surrounding whitespace.
func (r *LineReader) ReadLine(ctx context.Context) (string, error) {
	if ctx.Err() != nil {
		return "", ErrInputCancelled
	}
	r.start.Do(func() { go r.pump() })

	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case l, ok := <-r.lines:
		if !ok {
			return "", io.EOF
		}
		return l.text, l.err
	}
}
