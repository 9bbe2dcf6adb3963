package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
)

// ErrInterrupted is the cancellation cause of a context stopped by a signal.
var ErrInterrupted = errors.New("interrupted")

// InterruptHandler cancels a long-running command on SIGINT or SIGTERM and
// tells the user what was left undone.
type InterruptHandler struct {
	out     io.Writer
	cancel  context.CancelCauseFunc
	summary func() string
	once    sync.Once
	fired   atomic.Bool
}

// NewInterruptHandler writes its notice to out, or stdout when nil.
func NewInterruptHandler(out io.Writer) *InterruptHandler {
	if out == nil {
		out = os.Stdout
	}
	return &InterruptHandler{out: out}
}

// HandleInterrupts returns a context canceled with ErrInterrupted on the
// first signal. summary, when set, is printed under the warning.
func (h *InterruptHandler) HandleInterrupts(ctx context.Context, summary func() string) context.Context {
	ctx, cancel := context.WithCancelCause(ctx)
	h.cancel = cancel
	h.summary = summary

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(signals)
		select {
		case <-signals:
			h.interrupt()
		case <-ctx.Done():
		}
	}()
	return ctx
}

func (h *InterruptHandler) interrupt() {
	h.once.Do(func() {
		h.fired.Store(true)

		msg := "\n" + FormatWarning("Interrupted!")
		if h.summary != nil {
			if s := h.summary(); s != "" {
				msg += "\n" + FormatInfo(s)
			}
		}
		if _, err := fmt.Fprintln(h.out, msg); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write interrupt message: %v\n", err)
		}

		if h.cancel != nil {
			h.cancel(ErrInterrupted)
		}
	})
}

// WasInterrupted reports whether a signal stopped the command.
func (h *InterruptHandler) WasInterrupted() bool {
	return h.fired.Load()
}
