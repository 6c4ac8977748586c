// Package fileutil provides file discovery helpers.
package fileutil

import (
	"os"
	"path/filepath"
	"strings"
)

// FindFiles walks root and returns every file matching one of the
// extensions. When recursive is false only the top-level directory is
// scanned. Hidden directories and cargo's target/ output are skipped:
// generated sources under them are not ours to rewrite.
func FindFiles(root string, extensions []string, recursive bool) ([]string, error) {
	var files []string

	walkFn := func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path == root {
				return nil
			}
			if !recursive || skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if HasValidExtension(path, extensions) {
			files = append(files, path)
		}

		return nil
	}

	err := filepath.WalkDir(root, walkFn)
	return files, err
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == "target"
}

// HasValidExtension reports whether path ends with one of the extensions.
func HasValidExtension(path string, extensions []string) bool {
	for _, ext := range extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
