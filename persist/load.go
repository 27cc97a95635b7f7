package persist

import (
	"bufio"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/wildflower-tools/indexa/database"
	"github.com/wildflower-tools/indexa/indexalog"
	"github.com/wildflower-tools/indexa/interner"
)

// Load reads a snapshot written by Save and reconstructs a Database.
// It validates the magic header and schema_version before trusting any
// other field, and calls Database.Validate before returning so a
// truncated or otherwise corrupt file surfaces as an error here rather
// than as a panic deep inside some later QueryEngine search.
func Load(path string) (*database.Database, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &Io{Cause: err}
	}
	defer f.Close()

	db, err := readSnapshot(bufio.NewReader(f))
	if err != nil {
		return nil, err
	}
	if err := db.Validate(); err != nil {
		return nil, &TruncatedOrCorrupt{Reason: err.Error()}
	}
	return db, nil
}

func readSnapshot(r *bufio.Reader) (*database.Database, error) {
	d := newDecoder(r)

	var gotMagic [4]byte
	d.raw(gotMagic[:])
	if d.err != nil {
		return nil, &Io{Cause: d.err}
	}
	if gotMagic != magic {
		return nil, &MalformedHeader{}
	}

	version := d.u32()
	if d.err != nil {
		return nil, &Io{Cause: d.err}
	}
	if version != schemaVersion {
		indexalog.Logger().Warn().Uint32("found", version).Uint32("expected", schemaVersion).Msg("indexa: persist: incompatible schema")
		return nil, &IncompatibleSchema{Found: version, Expected: schemaVersion}
	}

	flags := d.u32()
	attrFlags := database.AttrFlags(flags & 0xff)
	foldEnabled := flags&foldPresentBit != 0

	var rawID [16]byte
	d.raw(rawID[:])
	buildID, err := uuid.FromBytes(rawID[:])
	if err != nil {
		return nil, &TruncatedOrCorrupt{Reason: "malformed build id: " + err.Error()}
	}

	numRoots := d.u64()
	roots := make([]database.RootDescriptor, numRoots)
	for i := range roots {
		roots[i] = database.RootDescriptor{Path: d.str(), EntryID: d.s32()}
	}

	in := readInterner(d)

	var fold *interner.Interner
	var mapping map[interner.Handle]interner.Handle
	if foldEnabled {
		fold = readInterner(d)
		numPairs := d.u64()
		mapping = make(map[interner.Handle]interner.Handle, numPairs)
		for i := uint64(0); i < numPairs; i++ {
			orig := d.u32()
			folded := d.u32()
			mapping[orig] = folded
		}
		in.RestoreFold(fold, mapping)
	}

	numEntries := d.u64()
	entries := make([]database.Entry, numEntries)
	for i := range entries {
		entries[i] = database.Entry{
			NameID:     d.u32(),
			Parent:     d.s32(),
			FoldID:     d.u32(),
			AttrID:     d.s32(),
			ChildStart: d.s32(),
			ChildCount: d.s32(),
			IsDir:      d.bool(),
		}
	}

	numAttrs := d.u64()
	attrs := make([]database.Attributes, numAttrs)
	for i := range attrs {
		var a database.Attributes
		if attrFlags.Has(database.AttrSize) {
			a.Size = d.s64()
		}
		if attrFlags.Has(database.AttrModTime) {
			a.ModTime = time.Unix(0, d.s64()).UTC()
		}
		if attrFlags.Has(database.AttrCreatedAt) {
			a.CreatedAt = time.Unix(0, d.s64()).UTC()
		}
		if attrFlags.Has(database.AttrAccessedAt) {
			a.AccessedAt = time.Unix(0, d.s64()).UTC()
		}
		if attrFlags.Has(database.AttrMode) {
			a.Mode = d.u32()
		}
		attrs[i] = a
	}

	if d.err != nil {
		return nil, &TruncatedOrCorrupt{Reason: d.err.Error()}
	}

	return database.Restore(buildID, version, attrFlags, foldEnabled, in, entries, attrs, roots), nil
}

func readInterner(d *decoder) *interner.Interner {
	in := interner.New()
	n := d.u64()
	for i := uint64(0); i < n && d.err == nil; i++ {
		in.Intern(d.str())
	}
	return in
}
