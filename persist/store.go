// Package persist stores world snapshots.
package persist

import (
	"context"
	"errors"
	"fmt"

	"github.com/pthm-cable/aipop/world"
)

// ErrNotFound is returned by Load when no snapshot has been saved yet.
var ErrNotFound = errors.New("snapshot not found")

// Store saves and loads world snapshots. Every Store is a world.Saver.
type Store interface {
	Save(ctx context.Context, snap *world.Snapshot) error
	Load(ctx context.Context) (*world.Snapshot, error)
}

// Multi fans saves out to several stores. Load returns the first snapshot any
// store can produce, in order.
type Multi []Store

func (m Multi) Save(ctx context.Context, snap *world.Snapshot) error {
	var errs []error
	for _, s := range m {
		if err := s.Save(ctx, snap); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Load(ctx context.Context) (*world.Snapshot, error) {
	if len(m) == 0 {
		return nil, ErrNotFound
	}
	var errs []error
	for _, s := range m {
		snap, err := s.Load(ctx)
		if err == nil {
			return snap, nil
		}
		errs = append(errs, err)
	}
	err := errors.Join(errs...)
	// All stores empty is still just "not found".
	for _, e := range errs {
		if !errors.Is(e, ErrNotFound) {
			return nil, fmt.Errorf("load snapshot: %w", err)
		}
	}
	return nil, ErrNotFound
}
