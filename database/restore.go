package database

import (
	"github.com/RoaringBitmap/roaring"
	"github.com/google/uuid"
	"github.com/wildflower-tools/indexa/interner"
)

// Restore reconstructs a Database from already-complete tables, as
// persist.Load does after reading a snapshot back from disk. Unlike
// Builder, which incrementally assembles entries and attrs one directory
// at a time, Restore takes the finished tables directly and only rebuilds
// the directory bitmap accelerator, which is never persisted.
func Restore(buildID uuid.UUID, schemaVersion uint32, attrFlags AttrFlags, foldEnabled bool, in *interner.Interner, entries []Entry, attrs []Attributes, roots []RootDescriptor) *Database {
	dirBitmap := roaring.New()
	for id, e := range entries {
		if e.IsDir {
			dirBitmap.Add(uint32(id))
		}
	}
	return &Database{
		buildID:       buildID,
		schemaVersion: schemaVersion,
		attrFlags:     attrFlags,
		foldEnabled:   foldEnabled,
		interner:      in,
		entries:       entries,
		attrs:         attrs,
		roots:         roots,
		dirBitmap:     dirBitmap,
	}
}
