package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Argument errors returned before any backend is touched.
var (
	ErrNilContext  = errors.New("context cannot be nil")
	ErrEmptyString = errors.New("string parameter cannot be empty")
	ErrInvalidKey  = errors.New("invalid preference key")
)

func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

func validateString(s, name string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, name)
	}
	return nil
}

// validateKey rejects keys that could not be used as a file name by the
// disk backend.
func validateKey(ctx context.Context, key string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(key, "key"); err != nil {
		return err
	}
	switch {
	case key == "." || key == "..", strings.ContainsAny(key, "/\\\x00"):
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
