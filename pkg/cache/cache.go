// Package cache provides the two caches used by standardize.
//
// [Memo] is the per-project data cache. Each key is bound at construction to
// a producer that computes one fact about a repository (does src/ exist, the
// parsed tsconfig.json, the root listing). A value is computed at most once
// per Memo and shared by every rule that asks for it. A Memo lives for one
// repository's analysis and is never persisted.
//
// [BranchStore] persists the default branch detected for each remote, so
// that refreshing an existing clone does not ask the remote every run.
// [FileBranchStore] keeps one JSON record per clone URL under a directory;
// [NullBranchStore] disables the store.
package cache

import (
	"context"
	"time"
)

// DefaultBranchMaxAge bounds how long a detected default branch is reused.
const DefaultBranchMaxAge = 24 * time.Hour

// BranchRecord is the default branch detected for one remote.
type BranchRecord struct {
	URL        string    `json:"url"`
	Branch     string    `json:"branch"`
	DetectedAt time.Time `json:"detected_at"`
}

// Fresh reports whether r is younger than maxAge at now.
// A maxAge of zero or less never expires.
func (r BranchRecord) Fresh(now time.Time, maxAge time.Duration) bool {
	if maxAge <= 0 {
		return true
	}
	return now.Sub(r.DetectedAt) < maxAge
}

// BranchStore remembers default branches across runs.
type BranchStore interface {
	// Lookup returns the fresh record for url, or false on a miss.
	Lookup(ctx context.Context, url string) (BranchRecord, bool, error)

	// Save stores rec under rec.URL, replacing any earlier record.
	Save(ctx context.Context, rec BranchRecord) error

	// List returns every stored record sorted by URL, stale ones included.
	List(ctx context.Context) ([]BranchRecord, error)

	// Clear removes every record and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}
