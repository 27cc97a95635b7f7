package persist

import (
	"bufio"
	"os"
	"path/filepath"

	"github.com/wildflower-tools/indexa/database"
	"github.com/wildflower-tools/indexa/interner"
)

// schemaVersion is the on-disk layout version this package writes and
// accepts. It tracks database.SchemaVersion; a mismatch between the two
// would mean the in-memory and on-disk formats have drifted apart.
const schemaVersion = database.SchemaVersion

// Save writes db to path as a single binary snapshot, laid out as a
// header block followed by roots, interner, entry, and attribute blocks
// in that order. It writes to a temporary file in the same directory and
// renames it into place, so a crash or concurrent reader never observes a
// partial file.
func Save(db *database.Database, path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".indexa-snapshot-*.tmp")
	if err != nil {
		return &Io{Cause: err}
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once the rename below succeeds

	w := bufio.NewWriter(tmp)
	if err := writeSnapshot(w, db); err != nil {
		tmp.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return &Io{Cause: err}
	}
	if err := tmp.Close(); err != nil {
		return &Io{Cause: err}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return &Io{Cause: err}
	}
	return nil
}

func writeSnapshot(w *bufio.Writer, db *database.Database) error {
	e := newEncoder(w)

	e.raw(magic[:])
	e.u32(schemaVersion)

	flags := uint32(db.AttrFlags())
	if db.FoldEnabled() {
		flags |= foldPresentBit
	}
	e.u32(flags)

	buildID := db.BuildID()
	e.raw(buildID[:])

	roots := db.Roots()
	e.u64(uint64(len(roots)))
	for _, r := range roots {
		e.str(r.Path)
		e.s32(r.EntryID)
	}

	in := db.Interner()
	writeInterner(e, in)

	if db.FoldEnabled() {
		fold := in.FoldInterner()
		writeInterner(e, fold)
		mapping := in.FoldMapping()
		e.u64(uint64(len(mapping)))
		for orig, folded := range mapping {
			e.u32(orig)
			e.u32(folded)
		}
	}

	entries := db.Entries()
	e.u64(uint64(len(entries)))
	for _, ent := range entries {
		e.u32(ent.NameID)
		e.s32(ent.Parent)
		e.u32(ent.FoldID)
		e.s32(ent.AttrID)
		e.s32(ent.ChildStart)
		e.s32(ent.ChildCount)
		e.bool(ent.IsDir)
	}

	attrs := db.Attrs()
	e.u64(uint64(len(attrs)))
	flagBits := db.AttrFlags()
	for _, a := range attrs {
		if flagBits.Has(database.AttrSize) {
			e.s64(a.Size)
		}
		if flagBits.Has(database.AttrModTime) {
			e.s64(a.ModTime.UnixNano())
		}
		if flagBits.Has(database.AttrCreatedAt) {
			e.s64(a.CreatedAt.UnixNano())
		}
		if flagBits.Has(database.AttrAccessedAt) {
			e.s64(a.AccessedAt.UnixNano())
		}
		if flagBits.Has(database.AttrMode) {
			e.u32(a.Mode)
		}
	}

	if e.err != nil {
		return &Io{Cause: e.err}
	}
	return nil
}

// writeInterner writes an empty block for a nil interner, which happens
// when the Database reports FoldEnabled but Interner.Fold was never called
// on its interner during the build.
func writeInterner(e *encoder, in *interner.Interner) {
	if in == nil {
		e.u64(0)
		return
	}
	frags := in.Fragments()
	e.u64(uint64(len(frags)))
	for _, f := range frags {
		e.str(f)
	}
}
