package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/Veraticus/cardspend/internal/common"
	"github.com/peterbourgon/diskv/v3"
)

// DiskvPreferences implements service.PreferenceStore as one file per key.
type DiskvPreferences struct {
	d *diskv.Diskv
}

// NewDiskvPreferences stores preferences under basePath.
func NewDiskvPreferences(basePath string) (*DiskvPreferences, error) {
	if err := validateString(basePath, "basePath"); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(basePath, 0750); err != nil {
		return nil, fmt.Errorf("failed to create preference directory: %w", err)
	}

	return &DiskvPreferences{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		Transform:    func(string) []string { return []string{} },
		CacheSizeMax: 64 * 1024,
		FilePerm:     0600,
		PathPerm:     0750,
	})}, nil
}

// Get returns the value stored under key.
func (p *DiskvPreferences) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(ctx, key); err != nil {
		return nil, err
	}
	val, err := p.d.Read(key)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("preference %q: %w", key, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read preference %q: %w", common.ErrPersistence, key, err)
	}
	return val, nil
}

// Put stores value under key, replacing any previous value.
func (p *DiskvPreferences) Put(ctx context.Context, key string, value []byte) error {
	if err := validateKey(ctx, key); err != nil {
		return err
	}
	if err := p.d.Write(key, value); err != nil {
		return fmt.Errorf("%w: write preference %q: %w", common.ErrPersistence, key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (p *DiskvPreferences) Delete(ctx context.Context, key string) error {
	if err := validateKey(ctx, key); err != nil {
		return err
	}
	if !p.d.Has(key) {
		return nil
	}
	if err := p.d.Erase(key); err != nil {
		return fmt.Errorf("%w: delete preference %q: %w", common.ErrPersistence, key, err)
	}
	return nil
}

// Close is a no-op; every Put is already on disk.
func (p *DiskvPreferences) Close() error {
	return nil
}
