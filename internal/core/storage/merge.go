package storage

import (
	"fmt"

	v1 "github.com/aevon-lab/nrega-dashboard/internal/api/v1"
)

// MergePolicy decides which record survives when a freshly fetched record collides on key
// with a retained record that lies outside the refreshed scope.
type MergePolicy string

const (
	// PreferFetched lets the freshest fetch win. This is the default.
	PreferFetched MergePolicy = "prefer_fetched"
	// PreferRetained keeps the record already in the store, first occurrence wins.
	PreferRetained MergePolicy = "prefer_retained"
)

// ParseMergePolicy maps a config value onto a MergePolicy. Empty means PreferFetched.
func ParseMergePolicy(s string) (MergePolicy, error) {
	switch MergePolicy(s) {
	case "", PreferFetched:
		return PreferFetched, nil
	case PreferRetained:
		return PreferRetained, nil
	default:
		return "", fmt.Errorf("unknown merge policy %q (want %s or %s)", s, PreferFetched, PreferRetained)
	}
}

// Scope is the slice of the store a sync refreshes: one region, optionally one fiscal year.
// An empty FinYear covers every year of the region.
type Scope struct {
	Region  string
	FinYear string
}

// Contains reports whether r falls inside the scope.
func (s Scope) Contains(r v1.Record) bool {
	return r.StateName == s.Region && (s.FinYear == "" || r.FinYear == s.FinYear)
}

// MergeRecords applies replace-scoped-then-union:
//
//  1. drop every existing record inside scope,
//  2. append fresh records to the remainder,
//  3. dedup by (district_code, fin_year).
//
// Retained records keep their order and come first. Among the fresh batch the first
// occurrence of a key wins. A fresh record colliding with a retained one either
// replaces it in place (PreferFetched) or is dropped (PreferRetained).
func MergeRecords(existing []v1.Record, scope Scope, fresh []v1.Record, policy MergePolicy) []v1.Record {
	out := make([]v1.Record, 0, len(existing)+len(fresh))
	index := make(map[v1.Key]int, len(existing)+len(fresh))

	for _, r := range existing {
		if scope.Contains(r) {
			continue
		}
		key := r.Key()
		if _, dup := index[key]; dup {
			continue
		}
		index[key] = len(out)
		out = append(out, r)
	}

	retained := len(out)
	seenFresh := make(map[v1.Key]struct{}, len(fresh))

	for _, r := range fresh {
		key := r.Key()
		if _, dup := seenFresh[key]; dup {
			continue
		}
		seenFresh[key] = struct{}{}

		pos, dup := index[key]
		if !dup {
			index[key] = len(out)
			out = append(out, r)
			continue
		}
		if pos < retained && policy != PreferRetained {
			out[pos] = r
		}
	}

	return out
}

// dedupe drops later occurrences of a key, keeping the first.
func dedupe(records []v1.Record) ([]v1.Record, int) {
	out := make([]v1.Record, 0, len(records))
	seen := make(map[v1.Key]struct{}, len(records))
	for _, r := range records {
		key := r.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out, len(records) - len(out)
}
