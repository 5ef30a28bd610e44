package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempManifest(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestVerify_MissingFile(t *testing.T) {
	for _, format := range Formats() {
		if _, err := Verify(format, filepath.Join(t.TempDir(), "nope"), ""); err == nil {
			t.Errorf("%s: verifying a missing file should fail", format)
		}
	}
}

func TestVerify_Axes_DuplicateIndex(t *testing.T) {
	// script_1 and script_0001 are distinct TOML keys but embed the
	// same record index
	path := writeTempManifest(t, "axes.toml", `
version = "0.2.3"

[scripts]
script_1 = "echo a"
script_0001 = "echo b"
`)

	_, err := Verify(FormatAxes, path, "")
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("want duplicate index error, got %v", err)
	}
}

func TestVerify_Axes_MissingVersion(t *testing.T) {
	path := writeTempManifest(t, "axes.toml", "[scripts]\nscript_0001 = \"echo a\"\n")

	if _, err := Verify(FormatAxes, path, ""); err == nil {
		t.Error("want missing version error")
	}
}

func TestVerify_Axes_MalformedTOML(t *testing.T) {
	path := writeTempManifest(t, "axes.toml", "version = \"0.2.3\"\n[scripts\n")

	if _, err := Verify(FormatAxes, path, ""); err == nil {
		t.Error("want TOML parse error")
	}
}

func TestVerify_Justfile_OutOfSequence(t *testing.T) {
	path := writeTempManifest(t, "justfile", `set shell := ["sh", "-c"]

script_0002:
    echo "b"

script_0001:
    echo "a"
`)

	_, err := Verify(FormatJustfile, path, "")
	if err == nil || !strings.Contains(err.Error(), "out of sequence") {
		t.Errorf("want out-of-sequence error, got %v", err)
	}
}

func TestVerify_Makefile_MissingBody(t *testing.T) {
	path := writeTempManifest(t, "makefile.mk", `.PHONY: default
default: script_1

.PHONY: script_1
script_1:
.PHONY: script_2
`)

	_, err := Verify(FormatMakefile, path, "")
	if err == nil || !strings.Contains(err.Error(), "no body") {
		t.Errorf("want missing-body error, got %v", err)
	}
}

func TestVerify_Taskfile_MalformedYAML(t *testing.T) {
	path := writeTempManifest(t, "Taskfile.yml", "version: '3'\ntasks: [unclosed\n")

	if _, err := Verify(FormatTaskfile, path, ""); err == nil {
		t.Error("want YAML parse error")
	}
}

func TestVerify_Taskfile_Gap(t *testing.T) {
	path := writeTempManifest(t, "Taskfile.yml", `version: '3'
tasks:
  default:
    deps: [script_1]
  script_1:
    cmds:
      - echo "a"
  script_3:
    cmds:
      - echo "c"
`)

	_, err := Verify(FormatTaskfile, path, "")
	if err == nil || !strings.Contains(err.Error(), "contiguous") {
		t.Errorf("want contiguity error, got %v", err)
	}
}

func TestVerify_Taskfile_EmptyCmds(t *testing.T) {
	path := writeTempManifest(t, "Taskfile.yml", `version: '3'
tasks:
  default:
    deps: [script_1]
  script_1:
    cmds: []
`)

	if _, err := Verify(FormatTaskfile, path, ""); err == nil {
		t.Error("want no-commands error")
	}
}

func TestVerify_Taskfile_MissingDefault(t *testing.T) {
	path := writeTempManifest(t, "Taskfile.yml", `version: '3'
tasks:
  script_1:
    cmds:
      - echo "a"
`)

	if _, err := Verify(FormatTaskfile, path, ""); err == nil {
		t.Error("want missing default task error")
	}
}
