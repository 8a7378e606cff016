package domain

// DiffReport is the set of semantic units that changed between two
// schema snapshots.
type DiffReport struct {
	AddedOps      []string
	RemovedOps    []string
	ModifiedOps   []string
	AddedTypes    []string
	RemovedTypes  []string
	ModifiedTypes []string

	// FullRegen is set when structural changes prevent incremental
	// reasoning, such as a change to a type shared by many operations.
	FullRegen bool
}

// Empty reports whether the diff found no changes at all.
func (d DiffReport) Empty() bool {
	return len(d.AddedOps) == 0 && len(d.RemovedOps) == 0 && len(d.ModifiedOps) == 0 &&
		len(d.AddedTypes) == 0 && len(d.RemovedTypes) == 0 && len(d.ModifiedTypes) == 0
}

// TouchedOp reports whether the named operation was added or modified.
func (d DiffReport) TouchedOp(name string) bool {
	return contains(d.AddedOps, name) || contains(d.ModifiedOps, name)
}

// TouchedType reports whether the named type was added or modified.
func (d DiffReport) TouchedType(name string) bool {
	return contains(d.AddedTypes, name) || contains(d.ModifiedTypes, name)
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
