// Package config loads the standardize configuration file.
//
// The file is TOML. Every field is optional; missing fields keep their
// defaults from [Default]:
//
//	repositories     = ["abi-utils", "logo"]
//	organization_url = "https://github.com/MetaMask"
//	repositories_dir = "~/.cache/standardize/repositories"
//	template_dir     = "."
//	allowed_entries  = [".yarnrc", "LICENSE"]
//	concurrency      = 4
//	git_timeout      = "5m"
//	branch_cache_ttl = "24h"
//
// Relative directories are resolved against the directory holding the file.
package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/standardize/pkg/errors"
)

// FileName is the configuration file looked up in the working directory
// when no path is given.
const FileName = "standardize.toml"

// DefaultRepositories are the repositories checked when none are configured.
var DefaultRepositories = []string{
	"abi-utils",
	"browser-passworder",
	"eth-block-tracker",
	"eth-phishing-detect",
	"eth-token-tracker",
	"logo",
	"providers",
}

// Config is the full configuration of a run.
type Config struct {
	Repositories    []string `toml:"repositories" validate:"required,min=1,dive,reponame"`
	OrganizationURL string   `toml:"organization_url" validate:"required,cloneurl"`
	RepositoriesDir string   `toml:"repositories_dir" validate:"required"`
	TemplateDir     string   `toml:"template_dir" validate:"required"`
	AllowedEntries  []string `toml:"allowed_entries" validate:"dive,entryname"`
	Concurrency     int      `toml:"concurrency" validate:"gte=1,lte=64"`
	GitTimeout      Duration `toml:"git_timeout"`
	BranchCacheTTL  Duration `toml:"branch_cache_ttl"`
}

// Duration is a time.Duration written as a string such as "90s" or "5m".
type Duration struct{ time.Duration }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Repositories:    slices.Clone(DefaultRepositories),
		OrganizationURL: "https://github.com/MetaMask",
		RepositoriesDir: defaultRepositoriesDir(),
		TemplateDir:     ".",
		AllowedEntries:  []string{".yarnrc", "LICENSE"},
		Concurrency:     4,
		GitTimeout:      Duration{5 * time.Minute},
		BranchCacheTTL:  Duration{24 * time.Hour},
	}
}

// Load reads the configuration at path over the defaults.
//
// An empty path looks for FileName in the working directory and falls back
// to the defaults if it does not exist. An explicit path must exist.
// Unknown keys, malformed TOML and invalid values return an error with code
// ErrCodeInvalidConfig.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = FileName
	}

	md, err := toml.DecodeFile(path, cfg)
	switch {
	case err == nil:
	case !explicit && stderrors.Is(err, fs.ErrNotExist):
		return cfg, cfg.Validate()
	case stderrors.Is(err, fs.ErrNotExist):
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config file %s not found", path)
	default:
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "could not parse %s", path)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}

	base := filepath.Dir(path)
	cfg.RepositoriesDir = resolve(base, cfg.RepositoriesDir)
	cfg.TemplateDir = resolve(base, cfg.TemplateDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolve expands a leading ~ and makes p relative to base.
func resolve(base, p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

func defaultRepositoriesDir() string {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, "standardize", "repositories")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".cache", "standardize", "repositories")
	}
	return ".repositories"
}
