// Package repository prepares the repositories to be analyzed.
//
// A [Provider] keeps a local clone of each named repository under one
// directory: it clones missing repositories, and for existing clones reads
// the current and default branch and checks out the default branch when
// they differ. [Local] wraps a directory that is already on disk without
// running git at all.
package repository

import (
	"path/filepath"

	"github.com/matzehuels/standardize/pkg/errors"
	"github.com/matzehuels/standardize/pkg/fsutil"
)

// Repository is a local working copy ready for analysis.
type Repository struct {
	DirectoryPath     string
	CurrentBranchName string
	DefaultBranchName string
}

// Name returns the last element of the repository's directory path.
func (r *Repository) Name() string {
	return filepath.Base(r.DirectoryPath)
}

// Local returns a Repository for the existing directory at path. Branch
// names are left empty.
func Local(path string) (*Repository, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "invalid path %q", path)
	}
	ok, err := fsutil.IsDirectory(abs)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidPath, "%s is not a directory", abs)
	}
	return &Repository{DirectoryPath: abs}, nil
}
