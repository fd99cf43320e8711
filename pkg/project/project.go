// Package project binds the facts rules ask about a repository to the
// producers that compute them.
//
// [NewCache] returns a fresh [cache.Memo] for one repository, so each fact
// (does src/ exist, the parsed tsconfig.json, the root listing) is read from
// disk at most once per analysis no matter how many rules consult it.
package project

import (
	"context"
	"path/filepath"

	"github.com/matzehuels/standardize/pkg/cache"
	"github.com/matzehuels/standardize/pkg/fsutil"
	"github.com/matzehuels/standardize/pkg/observability"
)

// Cache keys bound by [NewCache].
const (
	KeyHasSourceDirectory     = "hasSourceDirectory"
	KeyHasTsConfig            = "hasTsConfig"
	KeyTemplateTsConfig       = "templateTsConfig"
	KeyTsConfig               = "tsConfig"
	KeyHasYarn1Config         = "hasYarn1Config"
	KeyHasPackageManifest     = "hasPackageManifest"
	KeyPackageManifest        = "packageManifest"
	KeyTemplateRootEntryPaths = "templateRootEntryPaths"
	KeyRootEntryPaths         = "rootEntryPaths"
)

// Well-known entries of a module template.
const (
	SourceDirectory = "src"
	TsConfigFile    = "tsconfig.json"
	PackageManifest = "package.json"
	Yarn1Config     = ".yarnrc"
	YarnConfig      = ".yarnrc.yml"
)

// NewCache creates the data cache for the repository at repositoryPath,
// compared against the module template at templatePath.
func NewCache(repositoryPath, templatePath string, hooks observability.CacheHooks) *cache.Memo {
	isDir := func(path string) cache.Producer {
		return func(context.Context) (any, error) { return fsutil.IsDirectory(path) }
	}
	isFile := func(path string) cache.Producer {
		return func(context.Context) (any, error) { return fsutil.IsFile(path) }
	}
	readJSON := func(path string) cache.Producer {
		return func(context.Context) (any, error) { return fsutil.ReadJSONFile(path) }
	}
	readDir := func(path string) cache.Producer {
		return func(context.Context) (any, error) { return fsutil.ReadDirNames(path) }
	}

	return cache.NewMemo(map[string]cache.Producer{
		KeyHasSourceDirectory:     isDir(filepath.Join(repositoryPath, SourceDirectory)),
		KeyHasTsConfig:            isFile(filepath.Join(repositoryPath, TsConfigFile)),
		KeyTemplateTsConfig:       readJSON(filepath.Join(templatePath, TsConfigFile)),
		KeyTsConfig:               readJSON(filepath.Join(repositoryPath, TsConfigFile)),
		KeyHasYarn1Config:         isFile(filepath.Join(repositoryPath, Yarn1Config)),
		KeyHasPackageManifest:     isFile(filepath.Join(repositoryPath, PackageManifest)),
		KeyPackageManifest:        readJSON(filepath.Join(repositoryPath, PackageManifest)),
		KeyTemplateRootEntryPaths: readDir(templatePath),
		KeyRootEntryPaths:         readDir(repositoryPath),
	}, hooks)
}
