// Package database implements Database: a columnar, append-only table of
// filesystem entries built once by a Crawler and then read by many
// concurrent QueryEngine searches. Entries are addressed by a dense int32
// id (their index into the entry table); every directory's children
// occupy one contiguous id range, which is what lets QueryEngine
// partition the table for parallel scanning without chasing pointers.
//
// This mirrors the teacher's vvfs/indexing ColumnarSnapshot, generalized
// from a single fixed schema to optional attribute columns selected by
// AttrFlags.
package database

import (
	"path/filepath"
	"strings"

	"github.com/RoaringBitmap/roaring"
	"github.com/google/uuid"
	"github.com/wildflower-tools/indexa/interner"
)

// Database is the immutable result of a Crawler run. The zero Database is
// not valid; construct one through Builder.
type Database struct {
	buildID       uuid.UUID
	schemaVersion uint32
	attrFlags     AttrFlags
	foldEnabled   bool
	interner      *interner.Interner
	entries       []Entry
	attrs         []Attributes
	roots         []RootDescriptor
	dirBitmap     *roaring.Bitmap
}

// BuildID identifies this particular crawl. persist.Save stores it in the
// snapshot header; two Databases built from the same roots get different
// ids even if their contents are byte-identical.
func (db *Database) BuildID() uuid.UUID { return db.buildID }

// SchemaVersion reports the on-disk layout version this Database would be
// persisted under.
func (db *Database) SchemaVersion() uint32 { return db.schemaVersion }

// AttrFlags reports which optional attribute columns this Database was
// built with.
func (db *Database) AttrFlags() AttrFlags { return db.attrFlags }

// FoldEnabled reports whether a case-folded interner is available for
// case-insensitive matching.
func (db *Database) FoldEnabled() bool { return db.foldEnabled }

// Interner returns the name table entries' NameID and FoldID fields are
// resolved against.
func (db *Database) Interner() *interner.Interner { return db.interner }

// NumEntries returns the total number of entries across all roots.
func (db *Database) NumEntries() int { return len(db.entries) }

// Roots returns the filesystem roots this Database was crawled from, in
// the order the Crawler settled on after deduplication.
func (db *Database) Roots() []RootDescriptor { return db.roots }

// Entry returns the entry stored at id.
func (db *Database) Entry(id int32) (Entry, bool) {
	if id < 0 || int(id) >= len(db.entries) {
		return Entry{}, false
	}
	return db.entries[id], true
}

// Entries exposes the full entry table for QueryEngine's partitioned scan.
// Callers must not mutate the returned slice.
func (db *Database) Entries() []Entry { return db.entries }

// Attrs exposes the full attribute table for persist.Save, which writes
// it out positionally rather than re-deriving it one entry at a time.
// Callers must not mutate the returned slice.
func (db *Database) Attrs() []Attributes { return db.attrs }

// Attribute returns the attribute row for id, if id has one.
func (db *Database) Attribute(id int32) (Attributes, bool) {
	e, ok := db.Entry(id)
	if !ok || e.AttrID == NoAttributes {
		return Attributes{}, false
	}
	if int(e.AttrID) >= len(db.attrs) {
		return Attributes{}, false
	}
	return db.attrs[e.AttrID], true
}

// IsDirectory reports whether id names a directory, consulting the
// roaring-bitmap accelerator instead of the entry table.
func (db *Database) IsDirectory(id int32) bool {
	return db.dirBitmap.Contains(uint32(id))
}

// ChildrenOf returns the contiguous id range of id's direct children. The
// second return is false if id does not exist or is not a directory.
func (db *Database) ChildrenOf(id int32) (start, count int32, ok bool) {
	e, exists := db.Entry(id)
	if !exists || !e.IsDir {
		return 0, 0, false
	}
	return e.ChildStart, e.ChildCount, true
}

// PathOf reconstructs the absolute path of id by walking Parent links up
// to its root and joining interned fragments along the way. This is O(depth).
// It is used for presenting hits, and QueryEngine also calls it once per
// scanned entry when a Matcher tests full paths.
func (db *Database) PathOf(id int32) (string, bool) {
	if _, ok := db.Entry(id); !ok {
		return "", false
	}

	var parts []string
	cur := id
	for {
		ce, ok := db.Entry(cur)
		if !ok {
			return "", false
		}
		if ce.Parent == NoParent {
			root := db.rootPath(cur)
			if root == "" {
				return "", false
			}
			parts = append(parts, root)
			break
		}
		frag, ok := db.interner.Resolve(ce.NameID)
		if !ok {
			return "", false
		}
		parts = append(parts, frag)
		cur = ce.Parent
	}

	// parts was built root-last; reverse it before joining.
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return filepath.Join(parts...), true
}

func (db *Database) rootPath(entryID int32) string {
	for _, r := range db.roots {
		if r.EntryID == entryID {
			return r.Path
		}
	}
	return ""
}

// Validate checks the structural invariants a Database must hold,
// regardless of whether it was just built or loaded from a snapshot.
// persist.Load calls this before handing a Database back to its caller.
func (db *Database) Validate() error {
	n := int32(len(db.entries))
	for id, e := range db.entries {
		if _, ok := db.interner.Resolve(e.NameID); !ok {
			return &CorruptStructure{Reason: "entry references out-of-range name"}
		}
		if e.Parent != NoParent && (e.Parent < 0 || e.Parent >= n) {
			return &CorruptStructure{Reason: "entry references out-of-range parent"}
		}
		if e.Parent != NoParent && !db.entries[e.Parent].IsDir {
			return &CorruptStructure{Reason: "entry's parent is not a directory"}
		}
		if e.IsDir {
			if e.ChildStart < 0 || e.ChildCount < 0 || e.ChildStart+e.ChildCount > n {
				return &CorruptStructure{Reason: "directory child range out of bounds"}
			}
			for c := e.ChildStart; c < e.ChildStart+e.ChildCount; c++ {
				if db.entries[c].Parent != int32(id) {
					return &CorruptStructure{Reason: "child entry does not point back at its parent"}
				}
			}
		}
		if e.AttrID != NoAttributes && (e.AttrID < 0 || int(e.AttrID) >= len(db.attrs)) {
			return &CorruptStructure{Reason: "entry references out-of-range attribute row"}
		}
		if e.IsDir != db.dirBitmap.Contains(uint32(id)) {
			return &CorruptStructure{Reason: "directory bitmap disagrees with entry IsDir"}
		}
	}
	for _, r := range db.roots {
		if r.EntryID < 0 || r.EntryID >= n {
			return &CorruptStructure{Reason: "root descriptor references out-of-range entry"}
		}
		if strings.TrimSpace(r.Path) == "" {
			return &CorruptStructure{Reason: "root descriptor has empty path"}
		}
	}
	return nil
}
