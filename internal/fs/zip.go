package fs

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
)

// Zip writes the named files of fsys into a zip archive written to w. Entries
// keep their names relative to fsys.
func Zip(w io.Writer, fsys fs.FS, names []string) error {
	zw := zip.NewWriter(w)

	for _, name := range names {
		if err := addFile(zw, fsys, name); err != nil {
			_ = zw.Close()
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("zip.Writer.Close: %w", err)
	}

	return nil
}

func addFile(zw *zip.Writer, fsys fs.FS, name string) error {
	f, err := fsys.Open(name)
	if err != nil {
		return fmt.Errorf("fs.Open: %w", err)
	}
	defer f.Close()

	dst, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("zip.Writer.Create %s: %w", name, err)
	}

	if _, err = io.Copy(dst, f); err != nil {
		return fmt.Errorf("io.Copy %s: %w", name, err)
	}

	return nil
}
