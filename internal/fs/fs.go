package fs

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// FS is a report location: a read-only file system rooted at the directory
// the report files and their attachments live in.
type FS interface {
	fs.FS
	RootDir() string
}

var _ FS = (*rootDirFS)(nil)

func New(entry string) FS {
	return &rootDirFS{entry: entry, FS: os.DirFS(entry)}
}

// ForFile returns the FS of the directory holding pth and the file name inside it.
func ForFile(pth string) (FS, string) {
	dir, name := filepath.Split(filepath.Clean(pth))
	if dir == "" {
		dir = "."
	}

	return New(dir), name
}

type rootDirFS struct {
	fs.FS
	entry string
}

func (r rootDirFS) RootDir() string {
	return r.entry
}

// Files lists the regular files in the root of fsys accepted by match, sorted by name.
// A nil match accepts every file.
func Files(fsys fs.FS, match func(name string) bool) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("fs.ReadDir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !entry.Type().IsRegular() {
			continue
		}

		if match == nil || match(entry.Name()) {
			names = append(names, entry.Name())
		}
	}

	sort.Strings(names)

	return names, nil
}
