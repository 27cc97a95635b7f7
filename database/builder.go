package database

import (
	"sync"

	"github.com/RoaringBitmap/roaring"
	"github.com/google/uuid"
	"github.com/wildflower-tools/indexa/interner"
)

// SchemaVersion identifies the in-memory/on-disk layout Builder produces.
// persist.Load rejects any snapshot whose header advertises a different
// value.
const SchemaVersion uint32 = 1

// Builder assembles a Database one directory at a time. It is the only
// mutable view of the entry and attribute tables; everything the Crawler's
// worker pool touches concurrently funnels through Commit, which holds a
// single mutex for the duration of one slice append. Per-entry work (stat
// calls, name interning) happens before Commit is called and is not
// serialized.
type Builder struct {
	mu sync.Mutex

	interner    *interner.Interner
	foldEnabled bool
	attrFlags   AttrFlags
	entries     []Entry
	attrs       []Attributes
	dirBitmap   *roaring.Bitmap
}

// NewBuilder starts a Database build against interner in, collecting the
// attribute columns named by flags. fold enables the case-folded sibling
// interner used for case-insensitive search.
func NewBuilder(in *interner.Interner, flags AttrFlags, fold bool) *Builder {
	return &Builder{
		interner:    in,
		foldEnabled: fold,
		attrFlags:   flags,
		dirBitmap:   roaring.New(),
	}
}

// Commit reserves a contiguous block of entry ids and appends children (and
// their parallel attrs rows) into it in one critical section. It returns
// the id assigned to children[0]; children[i] is always at id+i, which is
// what lets Database.ChildrenOf return a Range instead of a list of ids.
//
// attrs must either be empty (no attribute collection for this directory)
// or the same length as children. Before calling Commit, the caller sets
// each child's AttrID to attrs' local index (0..len(attrs)-1) for that
// child, or to NoAttributes if that one entry's row failed to collect;
// Commit rewrites local indices into global attrs-table offsets as part of
// the same critical section.
func (b *Builder) Commit(children []Entry, attrs []Attributes) int32 {
	b.mu.Lock()
	defer b.mu.Unlock()

	start := int32(len(b.entries))
	if len(attrs) > 0 {
		attrBase := int32(len(b.attrs))
		for i := range children {
			if children[i].AttrID != NoAttributes {
				children[i].AttrID = attrBase + int32(children[i].AttrID)
			}
		}
		b.attrs = append(b.attrs, attrs...)
	}
	for i, e := range children {
		if e.IsDir {
			b.dirBitmap.Add(uint32(start) + uint32(i))
		}
	}
	b.entries = append(b.entries, children...)
	return start
}

// SetChildRange records the contiguous child block [start, start+count) on
// the directory entry id. The Crawler calls this once it has committed
// id's children, since id's own Entry was written earlier as a child of
// its own parent and could not yet know where its children would land.
func (b *Builder) SetChildRange(id int32, start, count int32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[id].ChildStart = start
	b.entries[id].ChildCount = count
}

// NumEntries returns the number of entries committed so far. Safe for
// concurrent use; id math goes through Commit's return value, not this.
func (b *Builder) NumEntries() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// Finish freezes the build into an immutable Database. roots must already
// have their EntryID fields populated by the Crawler.
func (b *Builder) Finish(roots []RootDescriptor) *Database {
	b.mu.Lock()
	defer b.mu.Unlock()

	return &Database{
		buildID:       uuid.New(),
		schemaVersion: SchemaVersion,
		attrFlags:     b.attrFlags,
		foldEnabled:   b.foldEnabled,
		interner:      b.interner,
		entries:       b.entries,
		attrs:         b.attrs,
		roots:         roots,
		dirBitmap:     b.dirBitmap,
	}
}
