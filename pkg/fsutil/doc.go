// Package fsutil provides the filesystem and JSON primitives used to gather
// facts about a repository.
//
// Every I/O failure is returned as an [errors.Error] with code
// [errors.ErrCodeIO] (or [errors.ErrCodeInvalidJSON] for malformed content)
// wrapping the underlying OS error, so the POSIX error name stays available
// through [errors.IOCode]:
//
//	_, err := fsutil.ReadJSONFile("/repo/tsconfig.json")
//	if errors.IOCode(err) == "ENOENT" {
//	    // file is missing
//	}
//
// The JSON helpers [Flatten], [Lookup] and [Truthy] operate on decoded
// documents (map[string]any) and follow JavaScript truthiness: a property
// that is absent, null, false, 0 or "" counts as missing, while empty
// objects and arrays count as present.
//
// [errors.Error]: github.com/matzehuels/standardize/pkg/errors.Error
// [errors.ErrCodeIO]: github.com/matzehuels/standardize/pkg/errors.ErrCodeIO
// [errors.ErrCodeInvalidJSON]: github.com/matzehuels/standardize/pkg/errors.ErrCodeInvalidJSON
// [errors.IOCode]: github.com/matzehuels/standardize/pkg/errors.IOCode
package fsutil
