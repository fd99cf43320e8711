package cache

import "context"

// NullBranchStore never stores anything; every lookup misses.
// Used for --no-cache and when no cache directory is available.
type NullBranchStore struct{}

// Lookup always misses.
func (NullBranchStore) Lookup(context.Context, string) (BranchRecord, bool, error) {
	return BranchRecord{}, false, nil
}

// Save discards rec.
func (NullBranchStore) Save(context.Context, BranchRecord) error { return nil }

// List returns no records.
func (NullBranchStore) List(context.Context) ([]BranchRecord, error) { return nil, nil }

// Clear removes nothing.
func (NullBranchStore) Clear(context.Context) (int, error) { return 0, nil }

var _ BranchStore = NullBranchStore{}
