//go:build darwin

package crawler

import (
	"os"
	"syscall"
	"time"

	"github.com/wildflower-tools/indexa/database"
)

func collectAttributes(info os.FileInfo, flags database.AttrFlags) database.Attributes {
	var a database.Attributes
	if flags.Has(database.AttrSize) {
		a.Size = info.Size()
	}
	if flags.Has(database.AttrModTime) {
		a.ModTime = info.ModTime()
	}
	if flags.Has(database.AttrMode) {
		a.Mode = uint32(info.Mode())
	}
	if flags.Has(database.AttrCreatedAt) || flags.Has(database.AttrAccessedAt) {
		if st, ok := info.Sys().(*syscall.Stat_t); ok {
			if flags.Has(database.AttrCreatedAt) {
				a.CreatedAt = time.Unix(st.Ctimespec.Sec, st.Ctimespec.Nsec)
			}
			if flags.Has(database.AttrAccessedAt) {
				a.AccessedAt = time.Unix(st.Atimespec.Sec, st.Atimespec.Nsec)
			}
		}
	}
	return a
}
