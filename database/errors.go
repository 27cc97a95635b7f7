package database

import "errors"

// CorruptStructure is returned when a Database loaded from disk, or built
// directly via Builder, fails one of the structural invariants: contiguous
// child ranges, in-bounds NameID/AttrID/Parent references, or a directory
// bitmap that disagrees with IsDir. It is always fatal; callers cannot
// repair a Database in this state and must re-crawl or discard the load.
type CorruptStructure struct {
	Reason string
}

func (e *CorruptStructure) Error() string {
	return "indexa: database: corrupt structure: " + e.Reason
}

// ErrEntryNotFound names the out-of-range entry id condition. The
// accessors in this package report that case through a false ok result
// rather than returning this error.
var ErrEntryNotFound = errors.New("indexa: database: entry not found")
