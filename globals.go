package indexa

import (
	"log"
	"os"
	"path/filepath"
)

// Default locations, resolved relative to the user's home directory. The
// core never reads or writes these paths itself; callers that want
// zero-config behavior use them as a starting point.
var (
	DefaultAppName    = "indexa"
	DefaultConfigPath = filepath.Join(getHomeDir(), ".config", DefaultAppName)
	DefaultCacheDir   = filepath.Join(DefaultConfigPath, "cache")
	DefaultDBFileName = "indexa.db"
)

// DefaultDatabasePath returns the default on-disk location for a saved
// Database, without creating any directories.
func DefaultDatabasePath() string {
	return filepath.Join(DefaultCacheDir, DefaultDBFileName)
}

func getHomeDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		cwd, cwdErr := os.Getwd()
		if cwdErr != nil {
			log.Printf("indexa: unable to resolve home or working directory, using /tmp: %v", err)
			return "/tmp"
		}
		log.Printf("indexa: unable to resolve home directory, using current working directory: %v", err)
		return cwd
	}
	return homeDir
}
