package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/standardize/pkg/errors"
)

const recordExt = ".json"

// FileBranchStore stores one JSON file per remote in a directory.
// Unreadable or mismatched files count as misses and are removed.
type FileBranchStore struct {
	dir    string
	maxAge time.Duration
	now    func() time.Time
}

// NewFileBranchStore creates the store in dir, creating dir if needed.
// Records older than maxAge are ignored; zero keeps them forever.
func NewFileBranchStore(dir string, maxAge time.Duration) (*FileBranchStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "could not create branch cache %s", dir)
	}
	return &FileBranchStore{dir: dir, maxAge: maxAge, now: time.Now}, nil
}

// Dir returns the directory holding the records.
func (s *FileBranchStore) Dir() string { return s.dir }

// Lookup implements BranchStore.
func (s *FileBranchStore) Lookup(ctx context.Context, url string) (BranchRecord, bool, error) {
	path := s.path(url)
	rec, err := readRecord(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return BranchRecord{}, false, nil
		}
		_ = os.Remove(path)
		return BranchRecord{}, false, nil
	}
	if rec.URL != url || rec.Branch == "" || !rec.Fresh(s.now(), s.maxAge) {
		_ = os.Remove(path)
		return BranchRecord{}, false, nil
	}
	return rec, true, nil
}

// Save implements BranchStore. The record is written to a temporary file
// and renamed so concurrent readers never see a partial record.
func (s *FileBranchStore) Save(ctx context.Context, rec BranchRecord) error {
	if rec.DetectedAt.IsZero() {
		rec.DetectedAt = s.now()
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	path := s.path(rec.URL)
	tmp, err := os.CreateTemp(s.dir, ".record-*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "could not write branch record for %s", rec.URL)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeIO, err, "could not write branch record for %s", rec.URL)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "could not write branch record for %s", rec.URL)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "could not write branch record for %s", rec.URL)
	}
	return nil
}

// List implements BranchStore. Files that do not decode are skipped.
func (s *FileBranchStore) List(ctx context.Context) ([]BranchRecord, error) {
	paths, err := s.records()
	if err != nil {
		return nil, err
	}
	recs := make([]BranchRecord, 0, len(paths))
	for _, p := range paths {
		if rec, err := readRecord(p); err == nil {
			recs = append(recs, rec)
		}
	}
	slices.SortFunc(recs, func(a, b BranchRecord) int { return strings.Compare(a.URL, b.URL) })
	return recs, nil
}

// Clear implements BranchStore.
func (s *FileBranchStore) Clear(ctx context.Context) (int, error) {
	paths, err := s.records()
	if err != nil {
		return 0, err
	}
	n := 0
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
			return n, errors.Wrap(errors.ErrCodeIO, err, "could not remove %s", p)
		}
		n++
	}
	return n, nil
}

func (s *FileBranchStore) records() ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(s.dir, "*"+recordExt))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "could not list %s", s.dir)
	}
	return paths, nil
}

// path maps a clone URL to its record file: a readable slug of the URL
// followed by a short hash that keeps distinct URLs apart.
func (s *FileBranchStore) path(url string) string {
	return filepath.Join(s.dir, recordName(url))
}

func recordName(url string) string {
	sum := sha256.Sum256([]byte(url))
	return slug(url) + "-" + hex.EncodeToString(sum[:4]) + recordExt
}

// slug keeps the host and path of a URL, replacing anything outside
// [A-Za-z0-9._-] with "-".
func slug(url string) string {
	if i := strings.Index(url, "://"); i >= 0 {
		url = url[i+3:]
	}
	url = strings.TrimSuffix(strings.Trim(url, "/"), ".git")

	var b strings.Builder
	dash := false
	for _, r := range url {
		ok := r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '.' || r == '_' || r == '-'
		if ok {
			b.WriteRune(r)
			dash = false
		} else if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.Trim(b.String(), "-.")
	if len(out) > 80 {
		out = out[len(out)-80:]
	}
	if out == "" {
		out = "remote"
	}
	return out
}

func readRecord(path string) (BranchRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return BranchRecord{}, err
	}
	var rec BranchRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return BranchRecord{}, err
	}
	return rec, nil
}

var _ BranchStore = (*FileBranchStore)(nil)
