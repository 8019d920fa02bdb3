// Package fsutil provides the filesystem collaborator the plugin cache uses
// to compute its default search paths.
package fsutil

import (
	"os"
	"path/filepath"
	"sort"
)

// Filesystem is the narrow view of the OS filesystem the plugin cache needs.
type Filesystem interface {
	// DirectoryExists reports whether path exists and is a directory.
	DirectoryExists(path string) bool
	// ListFiles returns the files directly under dir whose base name matches
	// the glob pattern, sorted by name. Subdirectories are not descended.
	ListFiles(dir, pattern string) ([]string, error)
}

// OSFilesystem implements Filesystem over the real filesystem.
type OSFilesystem struct{}

// NewOSFilesystem creates the production filesystem collaborator.
func NewOSFilesystem() *OSFilesystem {
	return &OSFilesystem{}
}

// DirectoryExists implements Filesystem.
func (OSFilesystem) DirectoryExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// ListFiles implements Filesystem.
func (OSFilesystem) ListFiles(dir, pattern string) ([]string, error) {
	if pattern == "" {
		panic("fsutil: pattern must not be empty")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		matched, err := filepath.Match(pattern, entry.Name())
		if err != nil {
			return nil, err
		}
		if matched {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}

	sort.Strings(files)
	return files, nil
}
