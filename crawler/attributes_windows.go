//go:build windows

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
		if d, ok := info.Sys().(*syscall.Win32FileAttributeData); ok {
			if flags.Has(database.AttrCreatedAt) {
				a.CreatedAt = time.Unix(0, d.CreationTime.Nanoseconds())
			}
			if flags.Has(database.AttrAccessedAt) {
				a.AccessedAt = time.Unix(0, d.LastAccessTime.Nanoseconds())
			}
		}
	}
	return a
}
