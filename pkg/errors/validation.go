package errors

import (
	"strings"
	"unicode"
)

// ValidateRepositoryName validates a repository name before it is used to
// build a clone URL and a directory path. It rejects names that could be used
// for path traversal or argument injection.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - No leading dash (would be parsed as a git flag)
//   - Maximum length of 100 characters
func ValidateRepositoryName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidRepository, "repository name cannot be empty")
	}

	if len(name) > 100 {
		return New(ErrCodeInvalidRepository, "repository name too long (max 100 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidRepository, "repository name contains invalid characters")
		}
	}

	if strings.HasPrefix(name, "-") {
		return New(ErrCodeInvalidRepository, "repository name cannot start with '-'")
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidRepository, "repository name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateEntryName validates a root entry name from the allow-list.
// Entries are compared against directory listings, so they must be plain
// basenames.
func ValidateEntryName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPath, "entry name cannot be empty")
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidPath, "entry name cannot contain path separators: %q", name)
	}

	if name == "." || name == ".." {
		return New(ErrCodeInvalidPath, "entry name cannot be %q", name)
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http, https, ssh or file).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	for _, scheme := range []string{"http://", "https://", "ssh://", "file://"} {
		if strings.HasPrefix(rawURL, scheme) {
			return nil
		}
	}

	return New(ErrCodeInvalidInput, "URL must use http, https, ssh or file scheme")
}
