package repository

import "github.com/spf13/afero"

// FileSystemRepository is the file system used for clone targets, temp dirs and the sync journal.
type FileSystemRepository interface {
	afero.Fs
}

// NewOsFileSystem returns the real file system.
func NewOsFileSystem() FileSystemRepository {
	return afero.NewOsFs()
}

// MakeTempDir creates a unique directory in the system temp dir named after pattern.
func MakeTempDir(fs FileSystemRepository, pattern string) (string, error) {
	return afero.TempDir(fs, "", pattern)
}
