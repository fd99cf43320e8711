package fsutil

import (
	"encoding/json"
	"io/fs"
	"os"
	"slices"

	"github.com/matzehuels/standardize/pkg/errors"
)

// ReadFile returns the content of the file at path as a string.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeIO, err, "could not read file %q", path)
	}
	return string(data), nil
}

// ReadJSONFile reads the file at path and decodes it as a JSON object.
// Content that is not valid JSON, or whose top-level value is not an object,
// returns an error with code ErrCodeInvalidJSON.
func ReadJSONFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "could not read file %q", path)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidJSON, err, "could not parse %q", path)
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidJSON, "%q does not contain a JSON object", path)
	}
	return obj, nil
}

// IsFile reports whether path exists and is a regular file.
// A missing path reports false; any other stat failure is returned.
func IsFile(path string) (bool, error) {
	info, err := stat(path)
	if err != nil || info == nil {
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// IsDirectory reports whether path exists and is a directory.
// A missing path reports false; any other stat failure is returned.
func IsDirectory(path string) (bool, error) {
	info, err := stat(path)
	if err != nil || info == nil {
		return false, err
	}
	return info.IsDir(), nil
}

// ReadDirNames returns the names of the entries directly under dir, sorted.
func ReadDirNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "could not read directory %q", dir)
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	slices.Sort(names)
	return names, nil
}

// stat returns nil info and nil error for a path that does not exist.
func stat(path string) (fs.FileInfo, error) {
	info, err := os.Stat(path)
	if errors.IOCode(err) == "ENOENT" {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "could not stat %q", path)
	}
	return info, nil
}
