package rules

import (
	"github.com/matzehuels/standardize/pkg/project"
	"github.com/matzehuels/standardize/pkg/rule"
)

// RequireSourceDirectory passes when the project has a src/ directory.
var RequireSourceDirectory = requireEntry(
	rule.RequireSourceDirectory,
	"Does the src/ directory exist?",
	nil,
	project.KeyHasSourceDirectory,
	project.SourceDirectory+"/",
	missingDirectory,
)

// RequireTsConfig passes when the project has a tsconfig.json file.
var RequireTsConfig = requireEntry(
	rule.RequireTsConfig,
	"Does the project have a tsconfig.json?",
	[]rule.Name{rule.RequireSourceDirectory},
	project.KeyHasTsConfig,
	project.TsConfigFile,
	missingFile,
)

// RequirePackageManifest passes when the project has a package.json file.
var RequirePackageManifest = requireEntry(
	rule.RequirePackageManifest,
	"Does the project have a package.json?",
	nil,
	project.KeyHasPackageManifest,
	project.PackageManifest,
	missingFile,
)
