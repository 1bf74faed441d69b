// Package snapshot reads daily package popularity snapshots and turns them
// into a normalized [series.Dataset].
//
// # Input Format
//
// A snapshot directory holds one file per day, named by its date:
//
//	stats/
//	  2024-02-28
//	  2024-02-29
//	  2024-03-01
//
// Each file is a newline-delimited list of records:
//
//	firefox,2345,extra,fields
//	vim,1800
//
// Only the first two fields are used. Lines that do not match
// "<name>,<count>" are skipped and reported through [Loader.Warnf]. Files
// whose names are not dates are ignored.
//
// # Loading
//
// The latest snapshot decides which packages are plotted: a package must
// exist today to be drawn historically. [Loader.Load] reads every (or every
// Nth, see [Sample]) snapshot, keeps only those packages, reconciles package
// families, and optionally converts counts into a percentage of the day's
// total:
//
//	l := &snapshot.Loader{Families: snapshot.DefaultFamilies, Percent: true}
//	ds, err := l.Load(ctx, "stats")
//
// Zero counts become absent values; a logarithmic axis has no place for 0.
//
// # Family Reconciliation
//
// Some products are split across versioned packages ("firefox-3.0",
// "firefox-3.5") next to a canonical one ("firefox"). A [FamilyRule] sums the
// variants of a day and credits the canonical package with the excess of
// that sum over its own count. Only the excess is added, so a day that
// reports both the canonical package and its variants is not counted twice.
package snapshot
