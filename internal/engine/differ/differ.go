// Package differ computes the structural difference between two schema
// snapshots. It is a pure function of two Schema values: no filesystem,
// no network.
package differ

import (
	"reflect"
	"sort"

	"github.com/farmstack/farmsync/internal/core/domain"
)

// Diff compares two schema snapshots and reports which semantic units
// changed. When prev is nil (first run), every unit is reported as added
// and full regeneration is forced.
func Diff(prev, next *domain.Schema) domain.DiffReport {
	if next == nil {
		panic("differ: next schema must not be nil")
	}

	if prev == nil {
		return firstRun(next)
	}

	var report domain.DiffReport

	diffTypes(prev, next, &report)
	diffOperations(prev, next, &report)

	// A change to a type referenced by more than one operation makes
	// partial invalidation unsafe to reason about, so the whole output
	// is regenerated. A change confined to a single operation's payload
	// stays incremental.
	refs := mergeRefCounts(prev.TypeRefCounts(), next.TypeRefCounts())
	for _, name := range report.ModifiedTypes {
		if refs[name] > 1 {
			report.FullRegen = true
		}
	}
	for _, name := range append(report.AddedTypes, report.RemovedTypes...) {
		if refs[name] > 1 {
			report.FullRegen = true
		}
	}

	return report
}

func firstRun(next *domain.Schema) domain.DiffReport {
	report := domain.DiffReport{FullRegen: true}
	for _, op := range next.Operations {
		report.AddedOps = append(report.AddedOps, op.Name)
	}
	for name := range next.Types {
		report.AddedTypes = append(report.AddedTypes, name)
	}
	sort.Strings(report.AddedOps)
	sort.Strings(report.AddedTypes)
	return report
}

func diffTypes(prev, next *domain.Schema, report *domain.DiffReport) {
	for name, nextDef := range next.Types {
		prevDef, ok := prev.Types[name]
		switch {
		case !ok:
			report.AddedTypes = append(report.AddedTypes, name)
		case !reflect.DeepEqual(prevDef, nextDef):
			report.ModifiedTypes = append(report.ModifiedTypes, name)
		}
	}
	for name := range prev.Types {
		if _, ok := next.Types[name]; !ok {
			report.RemovedTypes = append(report.RemovedTypes, name)
		}
	}
	sort.Strings(report.AddedTypes)
	sort.Strings(report.ModifiedTypes)
	sort.Strings(report.RemovedTypes)
}

func diffOperations(prev, next *domain.Schema, report *domain.DiffReport) {
	prevOps := make(map[string]domain.Operation, len(prev.Operations))
	for _, op := range prev.Operations {
		prevOps[op.Name] = op
	}

	for _, op := range next.Operations {
		prevOp, ok := prevOps[op.Name]
		switch {
		case !ok:
			report.AddedOps = append(report.AddedOps, op.Name)
		case !reflect.DeepEqual(prevOp, op):
			report.ModifiedOps = append(report.ModifiedOps, op.Name)
		}
		delete(prevOps, op.Name)
	}
	for name := range prevOps {
		report.RemovedOps = append(report.RemovedOps, name)
	}
	sort.Strings(report.AddedOps)
	sort.Strings(report.ModifiedOps)
	sort.Strings(report.RemovedOps)
}

// mergeRefCounts takes the maximum reference count seen on either side,
// so a type that was shared before a rename still forces regeneration.
func mergeRefCounts(prev, next map[string]int) map[string]int {
	merged := make(map[string]int, len(prev)+len(next))
	for name, n := range prev {
		merged[name] = n
	}
	for name, n := range next {
		if n > merged[name] {
			merged[name] = n
		}
	}
	return merged
}
