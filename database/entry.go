package database

import "github.com/wildflower-tools/indexa/interner"

// NoParent marks the root sentinel: an Entry whose Parent equals NoParent is
// one of the Database's roots, not nested under another entry.
const NoParent int32 = -1

// NoAttributes marks an Entry that was built without optional attribute
// collection, or for which collection failed for that one entry.
const NoAttributes int32 = -1

// Entry is one fixed-width record in the Database's columnar entry table.
// Its id is its index into Database.entries, never stored explicitly.
//
// The Crawler is the only writer: it assigns ids to a directory's children
// as one contiguous, monotonically increasing range, which is what lets
// Database.ChildrenOf slice directly into the table instead of chasing
// pointers.
type Entry struct {
	NameID     interner.Handle // basename, resolved through the Database's interner
	Parent     int32           // entry id of the containing directory, or NoParent
	AttrID     int32           // index into Database.attrs, or NoAttributes
	FoldID     interner.Handle // case-folded NameID, only meaningful when the Database was built with fold enabled
	ChildStart int32           // id of the first child; meaningful only when IsDir
	ChildCount int32           // number of children; meaningful only when IsDir
	IsDir      bool
}
