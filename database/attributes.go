package database

import "time"

// AttrFlags records which optional attribute columns a Database was built
// with. The Crawler decides this once, at build time, from its Config; it
// never varies per entry. Individual entries that lack a successfully
// collected row still point to NoAttributes regardless of which flags are
// set here.
type AttrFlags uint8

const (
	AttrSize AttrFlags = 1 << iota
	AttrModTime
	AttrCreatedAt
	AttrAccessedAt
	AttrMode
)

// Has reports whether every bit in want is set in f.
func (f AttrFlags) Has(want AttrFlags) bool {
	return f&want == want
}

// Attributes is the side table row for an Entry whose AttrID is not
// NoAttributes. Keeping these off the Entry record keeps the hot scan over
// the entry table (name matching) free of fields most queries never touch.
type Attributes struct {
	Size       int64
	ModTime    time.Time
	CreatedAt  time.Time
	AccessedAt time.Time
	Mode       uint32
}
