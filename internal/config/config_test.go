package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/runnerbench/runnerbench/internal/manifest"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Default()

	if cfg.Generate.DefaultCount != 1000 {
		t.Errorf("DefaultCount = %d, want 1000", cfg.Generate.DefaultCount)
	}
	if cfg.General.OutputDir != "." {
		t.Errorf("OutputDir = %q, want .", cfg.General.OutputDir)
	}
	if cfg.General.DatabasePath == "" {
		t.Error("DatabasePath should have a default")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Generate.DefaultCount != 1000 {
		t.Errorf("DefaultCount = %d, want default 1000", cfg.Generate.DefaultCount)
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")

	content := `
[general]
output_dir = "/bench/out"

[generate]
default_count = 500

[[suite]]
format = "makefile"
count = 200

[[suite]]
format = "taskfile"
path = "custom.yml"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.General.OutputDir != "/bench/out" {
		t.Errorf("OutputDir = %q, want /bench/out", cfg.General.OutputDir)
	}
	if cfg.Generate.DefaultCount != 500 {
		t.Errorf("DefaultCount = %d, want 500", cfg.Generate.DefaultCount)
	}
	if len(cfg.Suite) != 2 {
		t.Fatalf("Suite entries = %d, want 2", len(cfg.Suite))
	}
	if cfg.Suite[0].Count != 200 {
		t.Errorf("Suite[0].Count = %d, want 200", cfg.Suite[0].Count)
	}
}

func TestSuiteRequests_EmptySuite(t *testing.T) {
	cfg := Default()
	cfg.General.OutputDir = "/bench"

	reqs, err := cfg.SuiteRequests()
	if err != nil {
		t.Fatal(err)
	}

	if len(reqs) != len(manifest.Formats()) {
		t.Fatalf("requests = %d, want one per format (%d)", len(reqs), len(manifest.Formats()))
	}
	for _, req := range reqs {
		if req.Count != 1000 {
			t.Errorf("%s: Count = %d, want default 1000", req.Format, req.Count)
		}
		if filepath.Dir(req.OutputPath) != "/bench" {
			t.Errorf("%s: OutputPath = %q, want under /bench", req.Format, req.OutputPath)
		}
	}
}

func TestSuiteRequests_Entries(t *testing.T) {
	cfg := Default()
	cfg.General.OutputDir = "/bench"
	cfg.Suite = []SuiteEntry{
		{Format: "make", Count: 50, Path: "stress.mk"},
		{Format: "taskfile", NameTemplate: "job"},
		{Format: "axes", Path: "/abs/axes.toml"},
	}

	reqs, err := cfg.SuiteRequests()
	if err != nil {
		t.Fatal(err)
	}

	if reqs[0].Format != manifest.FormatMakefile {
		t.Errorf("Format = %q, want makefile", reqs[0].Format)
	}
	if reqs[0].OutputPath != "/bench/stress.mk" {
		t.Errorf("OutputPath = %q, want /bench/stress.mk", reqs[0].OutputPath)
	}
	if reqs[1].Count != 1000 {
		t.Errorf("zero count should inherit default, got %d", reqs[1].Count)
	}
	if reqs[1].NameTemplate != "job" {
		t.Errorf("NameTemplate = %q, want job", reqs[1].NameTemplate)
	}
	if reqs[2].OutputPath != "/abs/axes.toml" {
		t.Errorf("absolute path should stay untouched, got %q", reqs[2].OutputPath)
	}
}

func TestSuiteRequests_BadFormat(t *testing.T) {
	cfg := Default()
	cfg.Suite = []SuiteEntry{{Format: "ninja"}}

	if _, err := cfg.SuiteRequests(); err == nil {
		t.Error("unknown suite format should fail")
	}
}

func TestResolveOutputPath(t *testing.T) {
	cfg := Default()
	cfg.General.OutputDir = "/bench"

	tests := []struct {
		path string
		want string
	}{
		{"", "/bench/makefile.mk"},
		{"stress.mk", "/bench/stress.mk"},
		{"sub/stress.mk", "/bench/sub/stress.mk"},
		{"/abs/stress.mk", "/abs/stress.mk"},
	}

	for _, tt := range tests {
		got := cfg.ResolveOutputPath(manifest.FormatMakefile, tt.path)
		if got != tt.want {
			t.Errorf("ResolveOutputPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		input string
		want  string
	}{
		{"~/test", filepath.Join(home, "test")},
		{"/absolute/path", "/absolute/path"},
		{"relative", "relative"},
	}

	for _, tt := range tests {
		got := ExpandPath(tt.input)
		if got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFindLocalConfig(t *testing.T) {
	root := t.TempDir()
	subdir := filepath.Join(root, "sub", "dir")
	if err := os.MkdirAll(subdir, 0755); err != nil {
		t.Fatal(err)
	}

	localConfig := filepath.Join(root, LocalConfigName)
	if err := os.WriteFile(localConfig, []byte("[generate]\ndefault_count = 7"), 0644); err != nil {
		t.Fatal(err)
	}

	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	if err := os.Chdir(subdir); err != nil {
		t.Fatal(err)
	}

	found := FindLocalConfig()
	// Resolve symlinks: macOS TempDir lives under /var -> /private/var
	if filepath.Base(found) != LocalConfigName {
		t.Errorf("FindLocalConfig() = %q, want a path ending in %s", found, LocalConfigName)
	}

	cfg, err := LoadWithLocalFallback("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Generate.DefaultCount != 7 {
		t.Errorf("DefaultCount = %d, want 7 from local config", cfg.Generate.DefaultCount)
	}
}

func TestFindLocalConfig_NotFound(t *testing.T) {
	root := t.TempDir()

	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	if err := os.Chdir(root); err != nil {
		t.Fatal(err)
	}

	if found := FindLocalConfig(); found != "" {
		t.Errorf("FindLocalConfig() = %q, want empty string", found)
	}
}
