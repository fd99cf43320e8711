package rules

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/matzehuels/standardize/pkg/project"
	"github.com/matzehuels/standardize/pkg/rule"
)

// fixture lays out files (path -> content) under a new temp dir. A path
// ending in "/" creates a directory.
func fixture(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, name)
		if name[len(name)-1] == '/' {
			if err := os.MkdirAll(p, 0755); err != nil {
				t.Fatal(err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func verify(t *testing.T, r *rule.Rule, repo, template string) rule.Result {
	t.Helper()
	rc := rule.Context{
		Cache:          project.NewCache(repo, template, nil),
		RepositoryPath: repo,
	}
	res, err := r.Verify(context.Background(), rc)
	if err != nil {
		t.Fatalf("%s: Verify error: %v", r.Name, err)
	}
	if res.Name() != r.Name || res.Description() != r.Description {
		t.Errorf("result identity = %s/%q, want %s/%q", res.Name(), res.Description(), r.Name, r.Description)
	}
	return res
}

func messages(res rule.Result) []string {
	failed, ok := res.(rule.Failed)
	if !ok {
		return nil
	}
	var out []string
	for _, f := range failed.Failures {
		out = append(out, f.Message)
	}
	return out
}

func TestAllOrderAndDependencies(t *testing.T) {
	var names []rule.Name
	for _, r := range All() {
		names = append(names, r.Name)
	}
	want := []rule.Name{
		rule.AllRequiredPackageManifestPropertiesPresent,
		rule.AllRequiredTsConfigPropertiesPresent,
		rule.NoUnknownEntries,
		rule.RequirePackageManifest,
		rule.RequireSourceDirectory,
		rule.RequireTsConfig,
		rule.Yarn1ConfigAbsent,
	}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("All() = %v, want %v", names, want)
	}

	deps := map[rule.Name][]rule.Name{}
	for _, r := range All() {
		deps[r.Name] = r.Dependencies
	}
	if got := deps[rule.RequireTsConfig]; !reflect.DeepEqual(got, []rule.Name{rule.RequireSourceDirectory}) {
		t.Errorf("RequireTsConfig deps = %v", got)
	}
	if got := deps[rule.AllRequiredTsConfigPropertiesPresent]; !reflect.DeepEqual(got, []rule.Name{rule.RequireTsConfig}) {
		t.Errorf("AllRequiredTsConfigPropertiesPresent deps = %v", got)
	}
}

func TestRequireRules(t *testing.T) {
	template := fixture(t, nil)
	full := fixture(t, map[string]string{
		"src/":          "",
		"tsconfig.json": "{}",
		"package.json":  "{}",
	})
	empty := fixture(t, nil)

	tests := []struct {
		rule      *rule.Rule
		entryPath string
		message   string
	}{
		{RequireSourceDirectory, "src/", missingDirectory},
		{RequireTsConfig, "tsconfig.json", missingFile},
		{RequirePackageManifest, "package.json", missingFile},
	}

	for _, tt := range tests {
		t.Run(string(tt.rule.Name), func(t *testing.T) {
			if res := verify(t, tt.rule, full, template); !res.Passed() {
				t.Errorf("expected pass, got %v", messages(res))
			}

			res := verify(t, tt.rule, empty, template)
			failed, ok := res.(rule.Failed)
			if !ok {
				t.Fatalf("expected failure, got %T", res)
			}
			if len(failed.Failures) != 1 {
				t.Fatalf("failures = %d, want 1", len(failed.Failures))
			}
			f := failed.Failures[0]
			if f.Message != tt.message || f.EntryPath() != tt.entryPath {
				t.Errorf("failure = %q (%s), want %q (%s)", f.Message, f.EntryPath(), tt.message, tt.entryPath)
			}
		})
	}
}

func TestRequireSourceDirectoryRejectsFile(t *testing.T) {
	repo := fixture(t, map[string]string{"src": "not a directory"})
	if res := verify(t, RequireSourceDirectory, repo, fixture(t, nil)); res.Passed() {
		t.Error("a src file should not satisfy RequireSourceDirectory")
	}
}

func TestAllRequiredTsConfigPropertiesPresent(t *testing.T) {
	tests := []struct {
		name     string
		template string
		project  string
		want     []string
	}{
		{
			name:     "nested property missing",
			template: `{"a": {"b": 1}}`,
			project:  `{"a": {}}`,
			want:     []string{`Missing property "a.b".`},
		},
		{
			name:     "nested property present",
			template: `{"a": {"b": 1}}`,
			project:  `{"a": {"b": 1}}`,
		},
		{
			name:     "falsy values count as missing",
			template: `{"x": 1, "y": true, "z": "s"}`,
			project:  `{"x": 0, "y": false, "z": ""}`,
			want:     []string{`Missing property "x".`, `Missing property "y".`, `Missing property "z".`},
		},
		{
			name:     "empty object and array are leaves",
			template: `{"paths": {}, "lib": []}`,
			project:  `{"paths": {}, "lib": []}`,
		},
		{
			name:     "dotted keys match when identical",
			template: `{"compilerOptions": {"paths": {"./lib.js": ["src/lib.ts"]}}}`,
			project:  `{"compilerOptions": {"paths": {"./lib.js": ["src/lib.ts"]}}}`,
		},
		{
			name:     "dotted key missing",
			template: `{"compilerOptions": {"paths": {"./lib.js": ["src/lib.ts"]}}}`,
			project:  `{"compilerOptions": {"paths": {"./other.js": ["src/other.ts"]}}}`,
			want:     []string{`Missing property "compilerOptions.paths../lib.js".`},
		},
		{
			name:     "scalar does not satisfy an object",
			template: `{"a": {"b": 1}}`,
			project:  `{"a": "x"}`,
			want:     []string{`Missing property "a.b".`},
		},
		{
			name:     "all failures collected",
			template: `{"compilerOptions": {"strict": true, "esModuleInterop": true}, "include": ["./src"]}`,
			project:  `{}`,
			want: []string{
				`Missing property "compilerOptions.esModuleInterop".`,
				`Missing property "compilerOptions.strict".`,
				`Missing property "include".`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			template := fixture(t, map[string]string{"tsconfig.json": tt.template})
			repo := fixture(t, map[string]string{"tsconfig.json": tt.project})

			res := verify(t, AllRequiredTsConfigPropertiesPresent, repo, template)
			if got := messages(res); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("messages = %v, want %v", got, tt.want)
			}
			if res.Passed() != (len(tt.want) == 0) {
				t.Errorf("Passed() = %v", res.Passed())
			}
		})
	}
}

func TestAllRequiredTsConfigPropertiesPresentDetails(t *testing.T) {
	template := fixture(t, map[string]string{"tsconfig.json": `{"a": {"b": 1}}`})
	repo := fixture(t, map[string]string{"tsconfig.json": `{}`})

	failed := verify(t, AllRequiredTsConfigPropertiesPresent, repo, template).(rule.Failed)
	f := failed.Failures[0]
	if f.EntryPath() != "tsconfig.json" {
		t.Errorf("entryPath = %q", f.EntryPath())
	}
	if got := f.Details["propertyPath"]; !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("propertyPath = %v, want [a b]", got)
	}
}

func TestAllRequiredTsConfigPropertiesPresentDottedKeyDetails(t *testing.T) {
	template := fixture(t, map[string]string{"tsconfig.json": `{"compilerOptions": {"paths": {"./lib.js": ["src/lib.ts"]}}}`})
	repo := fixture(t, map[string]string{"tsconfig.json": `{"compilerOptions": {}}`})

	failed := verify(t, AllRequiredTsConfigPropertiesPresent, repo, template).(rule.Failed)
	want := []string{"compilerOptions", "paths", "./lib.js"}
	if got := failed.Failures[0].Details["propertyPath"]; !reflect.DeepEqual(got, want) {
		t.Errorf("propertyPath = %q, want %q", got, want)
	}
}

func TestAllRequiredTsConfigPropertiesPresentMissingFile(t *testing.T) {
	template := fixture(t, map[string]string{"tsconfig.json": `{"a": 1}`})
	repo := fixture(t, nil)

	rc := rule.Context{Cache: project.NewCache(repo, template, nil), RepositoryPath: repo}
	if _, err := AllRequiredTsConfigPropertiesPresent.Verify(context.Background(), rc); err == nil {
		t.Error("Verify should error when tsconfig.json cannot be read")
	}
}

func TestAllRequiredPackageManifestPropertiesPresent(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		want     []string
	}{
		{"complete", `{"name": "@metamask/logo", "version": "1.0.0"}`, nil},
		{"missing name", `{"version": "1.0.0"}`, []string{`Package manifest is missing a "name" field.`}},
		{"empty version", `{"name": "x", "version": ""}`, []string{`Package manifest is missing a "version" field.`}},
		{"both missing", `{}`, []string{
			`Package manifest is missing a "name" field.`,
			`Package manifest is missing a "version" field.`,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := fixture(t, map[string]string{"package.json": tt.manifest})
			res := verify(t, AllRequiredPackageManifestPropertiesPresent, repo, fixture(t, nil))
			if got := messages(res); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("messages = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestYarn1ConfigAbsent(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		pass  bool
	}{
		{"no yarn config", nil, true},
		{"only yarnrc.yml", map[string]string{".yarnrc.yml": ""}, true},
		{"only yarnrc", map[string]string{".yarnrc": ""}, false},
		{"both", map[string]string{".yarnrc": "", ".yarnrc.yml": ""}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := verify(t, Yarn1ConfigAbsent, fixture(t, tt.files), fixture(t, nil))
			if res.Passed() != tt.pass {
				t.Errorf("Passed() = %v, want %v", res.Passed(), tt.pass)
			}
			if !tt.pass {
				if f := res.(rule.Failed).Failures[0]; f.EntryPath() != ".yarnrc.yml" {
					t.Errorf("entryPath = %q, want .yarnrc.yml", f.EntryPath())
				}
			}
		})
	}
}

func TestNoUnknownEntries(t *testing.T) {
	template := fixture(t, map[string]string{
		"src/":         "",
		"package.json": "{}",
	})

	tests := []struct {
		name  string
		files map[string]string
		want  []string
	}{
		{
			name:  "unknown file",
			files: map[string]string{"src/": "", "package.json": "{}", "LICENSE": "", "random.txt": ""},
			want:  []string{"random.txt"},
		},
		{
			name:  "unknown directory",
			files: map[string]string{"src/": "", "package.json": "{}", "LICENSE": "", "random.txt/": ""},
			want:  []string{"random.txt/"},
		},
		{
			name:  "allow-listed entries only",
			files: map[string]string{"src/": "", ".yarnrc": "", "LICENSE": ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := verify(t, NoUnknownEntries(DefaultAllowedEntries), fixture(t, tt.files), template)

			var got []string
			if failed, ok := res.(rule.Failed); ok {
				for _, f := range failed.Failures {
					got = append(got, f.EntryPath())
				}
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("entry paths = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNoUnknownEntriesMessage(t *testing.T) {
	template := fixture(t, nil)
	repo := fixture(t, map[string]string{"docs/": ""})

	got := messages(verify(t, NoUnknownEntries(nil), repo, template))
	want := []string{`"docs" does not exist in the module template. Should it be moved to src/?`}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("messages = %v, want %v", got, want)
	}
}

func TestNewCustomAllowList(t *testing.T) {
	template := fixture(t, nil)
	repo := fixture(t, map[string]string{"CHANGELOG.md": "", "LICENSE": ""})

	var unknown *rule.Rule
	for _, r := range New(Options{AllowedEntries: []string{"CHANGELOG.md"}}) {
		if r.Name == rule.NoUnknownEntries {
			unknown = r
		}
	}
	got := messages(verify(t, unknown, repo, template))
	if len(got) != 1 {
		t.Fatalf("messages = %v, want exactly one for LICENSE", got)
	}
}
