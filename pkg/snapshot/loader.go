package snapshot

import (
	"context"
	"strings"

	"github.com/matzehuels/popcon/pkg/errors"
	"github.com/matzehuels/popcon/pkg/series"
)

// FamilyRule folds versioned packages into a canonical one. Every package
// whose name starts with Prefix (other than Canonical itself) is a variant.
type FamilyRule struct {
	Prefix    string `toml:"prefix" json:"prefix"`
	Canonical string `toml:"canonical" json:"canonical"`
}

// DefaultFamilies holds the reconciliation rules used when none are
// configured.
var DefaultFamilies = []FamilyRule{
	{Prefix: "firefox-", Canonical: "firefox"},
}

func (r FamilyRule) matches(name string) bool {
	return name != r.Canonical && strings.HasPrefix(name, r.Prefix)
}

// Loader builds a [series.Dataset] from a snapshot directory.
type Loader struct {
	// Families lists the reconciliation rules. Nil applies none.
	Families []FamilyRule

	// Percent converts counts into a percentage of the day's total.
	Percent bool

	// Target is the approximate number of snapshots to read. Zero reads all.
	Target int

	// Warnf receives malformed-line reports. Nil discards them.
	Warnf func(format string, args ...any)
}

// Load lists dir and loads its snapshots.
func (l *Loader) Load(ctx context.Context, dir string) (*series.Dataset, error) {
	files, err := List(dir)
	if err != nil {
		return nil, err
	}
	return l.LoadFiles(ctx, files)
}

// LoadFiles loads the given snapshot files, which must be ordered by date.
//
// It returns ErrCodeInsufficientData when files is empty and
// ErrCodeNoCurrentSnapshot when the latest file holds no usable record.
func (l *Loader) LoadFiles(ctx context.Context, files []File) (*series.Dataset, error) {
	if len(files) == 0 {
		return nil, errors.New(errors.ErrCodeInsufficientData, "no snapshots found")
	}

	latest := files[len(files)-1]
	current, err := ReadFile(latest.Path, l.Warnf)
	if err != nil {
		return nil, err
	}

	var packages []string
	retained := make(map[string]bool, len(current))
	for _, rec := range current {
		if !retained[rec.Name] {
			retained[rec.Name] = true
			packages = append(packages, rec.Name)
		}
	}
	if len(packages) == 0 {
		return nil, errors.New(errors.ErrCodeNoCurrentSnapshot, "latest snapshot %s is empty", latest.Name)
	}

	ds := series.NewDataset(packages, l.Percent)
	for _, f := range Sample(files, l.Target) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		recs := current
		if f.Path != latest.Path {
			if recs, err = ReadFile(f.Path, l.Warnf); err != nil {
				return nil, err
			}
		}
		ds.SetDay(f.Day, l.normalize(recs, retained))
	}
	return ds, nil
}

// normalize restricts a day to the retained packages, reconciles families
// and applies percentage mode.
func (l *Loader) normalize(recs []Record, retained map[string]bool) map[string]float64 {
	counts := make(map[string]int64, len(retained))
	for _, rec := range recs {
		if retained[rec.Name] {
			counts[rec.Name] = rec.Votes
		}
	}

	total := Reconcile(counts, l.Families, retained)

	values := make(map[string]float64, len(counts))
	for name, c := range counts {
		if c == 0 {
			continue
		}
		if l.Percent {
			values[name] = 100 * float64(c) / float64(total)
		} else {
			values[name] = float64(c)
		}
	}
	return values
}

// Reconcile applies family rules to one day's counts in place and returns
// the day total.
//
// For each family, the variants are summed and the excess of that sum over
// the canonical count is credited to the canonical package when it is
// retained. The total counts every non-variant package plus the excess of
// families whose canonical package is not retained, so versioned builds are
// never counted twice.
func Reconcile(counts map[string]int64, rules []FamilyRule, retained map[string]bool) int64 {
	family := func(name string) int {
		for i, r := range rules {
			if r.matches(name) {
				return i
			}
		}
		return -1
	}

	variants := make([]int64, len(rules))
	var total int64
	for name, c := range counts {
		if i := family(name); i >= 0 {
			variants[i] += c
		} else {
			total += c
		}
	}

	for i, r := range rules {
		if variants[i] == 0 {
			continue
		}
		excess := max(0, variants[i]-counts[r.Canonical])
		if excess == 0 {
			continue
		}
		if retained[r.Canonical] {
			counts[r.Canonical] += excess
		}
		total += excess
	}
	return total
}
