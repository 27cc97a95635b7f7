package persist

import "fmt"

// Io wraps an underlying filesystem error encountered while reading or
// writing a snapshot file.
type Io struct {
	Cause error
}

func (e *Io) Error() string { return "indexa: persist: io: " + e.Cause.Error() }
func (e *Io) Unwrap() error { return e.Cause }

// MalformedHeader is returned when a file does not begin with the expected
// magic bytes, so it is not an indexa snapshot at all.
type MalformedHeader struct{}

func (e *MalformedHeader) Error() string { return "indexa: persist: malformed header" }

// IncompatibleSchema is returned when a snapshot's schema_version does not
// match the version this build of the database package produces. The
// caller is expected to prompt the user to rebuild.
type IncompatibleSchema struct {
	Found    uint32
	Expected uint32
}

func (e *IncompatibleSchema) Error() string {
	return fmt.Sprintf("indexa: persist: incompatible schema: found %d, expected %d", e.Found, e.Expected)
}

// TruncatedOrCorrupt is returned when a snapshot's header is well formed
// but a block ends before its declared count of records, or a record
// refers outside the bounds of a table that comes before it in the file.
type TruncatedOrCorrupt struct {
	Reason string
}

func (e *TruncatedOrCorrupt) Error() string {
	return "indexa: persist: truncated or corrupt: " + e.Reason
}
