// Package targets loads the catalogue of regions the scheduler keeps in sync.
package targets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	v1 "github.com/aevon-lab/nrega-dashboard/internal/api/v1"
	"gopkg.in/yaml.v3"
)

// Target is one scheduled sync scope. An empty FinYear means all years.
type Target struct {
	Region  string `yaml:"region"`
	FinYear string `yaml:"fin_year"`
	// Source is the file the target was read from. Empty for the default target.
	Source string `yaml:"-"`
}

func (t Target) String() string {
	if t.FinYear == "" {
		return t.Region
	}
	return t.Region + "/" + t.FinYear
}

func (t Target) key() string {
	return t.Region + "|" + t.FinYear
}

// LoadDir reads every *.yaml / *.yml file in dir, one target per file,
// in file name order. A missing directory is zero targets.
func LoadDir(dir string) ([]Target, error) {
	if dir == "" {
		return nil, nil
	}

	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sync targets dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("sync targets path %q is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading sync targets dir: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var out []Target
	seen := make(map[string]string)
	for _, e := range entries {
		if e.IsDir() || (!strings.HasSuffix(e.Name(), ".yaml") && !strings.HasSuffix(e.Name(), ".yml")) {
			continue
		}

		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading target file %s: %w", path, err)
		}

		var t Target
		if err := yaml.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("parsing target file %s: %w", path, err)
		}
		t.Region = strings.TrimSpace(t.Region)
		t.FinYear = strings.TrimSpace(t.FinYear)
		if t.Region == "" && t.FinYear == "" {
			continue // empty / comment-only file
		}

		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("target file %s: %w", path, err)
		}
		if prev, dup := seen[t.key()]; dup {
			return nil, fmt.Errorf("target %s: duplicate of %s", t, prev)
		}
		seen[t.key()] = path

		t.Source = path
		out = append(out, t)
	}
	return out, nil
}

// Validate checks the region is set and the fiscal year, if any, is well formed.
func (t Target) Validate() error {
	if t.Region == "" {
		return fmt.Errorf("region must not be empty")
	}
	if t.FinYear != "" && !v1.ValidFinYear(t.FinYear) {
		return fmt.Errorf("fin_year %q must look like YYYY-YYYY", t.FinYear)
	}
	return nil
}

// WithDefault returns the schedule: the default region (all years) first, then
// the catalogue minus any entry equal to it.
func WithDefault(defaultRegion string, catalogue []Target) []Target {
	def := Target{Region: defaultRegion}
	out := make([]Target, 0, len(catalogue)+1)
	out = append(out, def)
	for _, t := range catalogue {
		if t.key() == def.key() {
			continue
		}
		out = append(out, t)
	}
	return out
}
