package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const logoURL = "https://github.com/MetaMask/logo"

func newStore(t *testing.T, maxAge time.Duration) *FileBranchStore {
	t.Helper()
	s, err := NewFileBranchStore(filepath.Join(t.TempDir(), "branches"), maxAge)
	if err != nil {
		t.Fatalf("NewFileBranchStore error: %v", err)
	}
	return s
}

func TestBranchRecordFresh(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rec := BranchRecord{URL: logoURL, Branch: "main", DetectedAt: now.Add(-2 * time.Hour)}

	tests := []struct {
		name   string
		maxAge time.Duration
		want   bool
	}{
		{"within max age", DefaultBranchMaxAge, true},
		{"older than max age", time.Hour, false},
		{"exactly max age", 2 * time.Hour, false},
		{"no expiry", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rec.Fresh(now, tt.maxAge); got != tt.want {
				t.Errorf("Fresh() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFileBranchStoreSaveLookup(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, DefaultBranchMaxAge)

	if _, ok, err := s.Lookup(ctx, logoURL); err != nil || ok {
		t.Fatalf("Lookup on empty store = %v, %v; want miss", ok, err)
	}

	if err := s.Save(ctx, BranchRecord{URL: logoURL, Branch: "main"}); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	rec, ok, err := s.Lookup(ctx, logoURL)
	if err != nil || !ok {
		t.Fatalf("Lookup = %v, %v; want hit", ok, err)
	}
	if rec.Branch != "main" || rec.DetectedAt.IsZero() {
		t.Errorf("record = %+v; want branch main with a detection time", rec)
	}

	// A second save replaces the record.
	if err := s.Save(ctx, BranchRecord{URL: logoURL, Branch: "develop"}); err != nil {
		t.Fatal(err)
	}
	if rec, _, _ := s.Lookup(ctx, logoURL); rec.Branch != "develop" {
		t.Errorf("Branch = %q after overwrite, want develop", rec.Branch)
	}

	// Other remotes are kept apart.
	if _, ok, _ := s.Lookup(ctx, "https://github.com/MetaMask/providers"); ok {
		t.Error("Lookup of another remote should miss")
	}
}

func TestFileBranchStoreStaleRecord(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, time.Hour)
	now := time.Now()
	s.now = func() time.Time { return now }

	if err := s.Save(ctx, BranchRecord{URL: logoURL, Branch: "main", DetectedAt: now.Add(-2 * time.Hour)}); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := s.Lookup(ctx, logoURL); ok {
		t.Error("a record older than max age should miss")
	}
	if _, err := os.Stat(s.path(logoURL)); !os.IsNotExist(err) {
		t.Error("stale record should be removed")
	}
}

func TestFileBranchStoreCorruptRecord(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, DefaultBranchMaxAge)

	if err := os.WriteFile(s.path(logoURL), []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := s.Lookup(ctx, logoURL); ok || err != nil {
		t.Errorf("Lookup of corrupt record = %v, %v; want silent miss", ok, err)
	}
	if _, err := os.Stat(s.path(logoURL)); !os.IsNotExist(err) {
		t.Error("corrupt record should be removed")
	}
}

func TestFileBranchStoreListAndClear(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, DefaultBranchMaxAge)

	for _, url := range []string{"https://github.com/MetaMask/providers", logoURL, "git@github.com:MetaMask/abi-utils.git"} {
		if err := s.Save(ctx, BranchRecord{URL: url, Branch: "main"}); err != nil {
			t.Fatal(err)
		}
	}

	recs, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	var urls []string
	for _, r := range recs {
		urls = append(urls, r.URL)
	}
	want := "git@github.com:MetaMask/abi-utils.git https://github.com/MetaMask/logo https://github.com/MetaMask/providers"
	if got := strings.Join(urls, " "); got != want {
		t.Errorf("List URLs = %s, want %s", got, want)
	}

	n, err := s.Clear(ctx)
	if err != nil || n != 3 {
		t.Fatalf("Clear = %d, %v; want 3", n, err)
	}
	if recs, _ := s.List(ctx); len(recs) != 0 {
		t.Errorf("List after Clear = %v, want empty", recs)
	}
}

func TestRecordName(t *testing.T) {
	tests := []struct {
		url    string
		prefix string
	}{
		{"https://github.com/MetaMask/logo", "github.com-MetaMask-logo-"},
		{"git@github.com:MetaMask/logo.git", "git-github.com-MetaMask-logo-"},
		{"file:///tmp/origins/logo/", "tmp-origins-logo-"},
		{"://", "remote-"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			name := recordName(tt.url)
			if !strings.HasPrefix(name, tt.prefix) || !strings.HasSuffix(name, ".json") {
				t.Errorf("recordName(%q) = %q, want prefix %q", tt.url, name, tt.prefix)
			}
		})
	}

	if recordName("https://github.com/MetaMask/logo") == recordName("https://github.com/MetaMask/logo/") {
		t.Error("URLs with the same slug should still get distinct names")
	}
}

func TestNullBranchStore(t *testing.T) {
	ctx := context.Background()
	var s BranchStore = NullBranchStore{}

	if err := s.Save(ctx, BranchRecord{URL: logoURL, Branch: "main"}); err != nil {
		t.Errorf("Save error: %v", err)
	}
	if _, ok, _ := s.Lookup(ctx, logoURL); ok {
		t.Error("NullBranchStore should never hit")
	}
	if n, _ := s.Clear(ctx); n != 0 {
		t.Errorf("Clear = %d, want 0", n)
	}
}
