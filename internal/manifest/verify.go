package manifest

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Report summarizes a verified manifest
type Report struct {
	Format  Format
	Records int
}

// Verify parses a generated manifest and checks that it is well-formed
// for its grammar and that record names are unique with contiguous
// ascending indices starting at 1. An empty stem means DefaultStem.
func Verify(format Format, path, stem string) (Report, error) {
	if stem == "" {
		stem = DefaultStem
	}
	switch format {
	case FormatAxes:
		return verifyAxes(path, stem)
	case FormatTaskfile:
		return verifyTaskfile(path, stem)
	case FormatJustfile, FormatMakefile:
		return verifyRecipes(format, path, stem)
	}
	return Report{}, fmt.Errorf("unknown manifest format: %q", format)
}

func verifyAxes(path, stem string) (Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Report{}, fmt.Errorf("reading %s: %w", path, err)
	}

	var doc struct {
		Version string         `toml:"version"`
		Scripts map[string]any `toml:"scripts"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return Report{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	if doc.Version == "" {
		return Report{}, fmt.Errorf("%s: missing version declaration", path)
	}

	// Fixed workflow entries share the [scripts] table with the
	// generated records; only names matching the stem count.
	indices := collectIndices(mapKeys(doc.Scripts), stem)
	if err := checkContiguous(indices); err != nil {
		return Report{}, fmt.Errorf("%s: %w", path, err)
	}
	return Report{Format: FormatAxes, Records: len(indices)}, nil
}

func verifyTaskfile(path, stem string) (Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Report{}, fmt.Errorf("reading %s: %w", path, err)
	}

	var doc struct {
		Version string `yaml:"version"`
		Tasks   map[string]struct {
			Cmds []string `yaml:"cmds"`
			Deps []string `yaml:"deps"`
		} `yaml:"tasks"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Report{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	if doc.Version != "3" {
		return Report{}, fmt.Errorf("%s: unexpected taskfile version %q", path, doc.Version)
	}
	if _, ok := doc.Tasks["default"]; !ok {
		return Report{}, fmt.Errorf("%s: missing default task", path)
	}

	var names []string
	for name, task := range doc.Tasks {
		if name == "default" {
			continue
		}
		if len(task.Cmds) == 0 {
			return Report{}, fmt.Errorf("%s: task %q has no commands", path, name)
		}
		names = append(names, name)
	}

	indices := collectIndices(names, stem)
	if err := checkContiguous(indices); err != nil {
		return Report{}, fmt.Errorf("%s: %w", path, err)
	}
	return Report{Format: FormatTaskfile, Records: len(indices)}, nil
}

// verifyRecipes scans line-oriented grammars (justfile, makefile) where
// each record is a `name:` header followed by an indented body.
func verifyRecipes(format Format, path, stem string) (Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return Report{}, fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()

	headerRe := regexp.MustCompile(`^` + regexp.QuoteMeta(stem) + `_(\d+):$`)

	var (
		count    int
		prev     int
		lastName string
		wantBody bool
	)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		if wantBody {
			if !strings.HasPrefix(line, " ") && !strings.HasPrefix(line, "\t") {
				return Report{}, fmt.Errorf("%s: record %q has no body", path, lastName)
			}
			wantBody = false
			continue
		}

		m := headerRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			return Report{}, fmt.Errorf("%s: record %q: %w", path, line, err)
		}
		if idx != prev+1 {
			return Report{}, fmt.Errorf("%s: record index %d out of sequence (want %d)", path, idx, prev+1)
		}
		prev = idx
		count++
		lastName = strings.TrimSuffix(line, ":")
		wantBody = true
	}
	if err := scanner.Err(); err != nil {
		return Report{}, fmt.Errorf("reading %s: %w", path, err)
	}
	if wantBody {
		return Report{}, fmt.Errorf("%s: record %q has no body", path, lastName)
	}

	return Report{Format: format, Records: count}, nil
}

// collectIndices extracts record indices from names matching stem_N
func collectIndices(names []string, stem string) []int {
	prefix := stem + "_"
	var indices []int
	for _, name := range names {
		digits, ok := strings.CutPrefix(name, prefix)
		if !ok {
			continue
		}
		idx, err := strconv.Atoi(digits)
		if err != nil {
			continue
		}
		indices = append(indices, idx)
	}
	return indices
}

// checkContiguous verifies indices cover exactly 1..len with no
// duplicates or gaps
func checkContiguous(indices []int) error {
	sort.Ints(indices)
	for k, idx := range indices {
		if idx != k+1 {
			if k > 0 && idx == indices[k-1] {
				return fmt.Errorf("duplicate record index %d", idx)
			}
			return fmt.Errorf("record indices not contiguous: found %d, want %d", idx, k+1)
		}
	}
	return nil
}

func mapKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
