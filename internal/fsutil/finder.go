// Package fsutil provides small file system helpers.
package fsutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// CollectFiles resolves path to a flat, lexically ordered list of files with
// the given extension. A file path is returned as-is when it matches; a
// directory is walked recursively.
func CollectFiles(path, extension string) ([]string, error) {
	if extension == "" {
		panic("extension must not be empty")
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if strings.HasSuffix(info.Name(), extension) {
			return []string{path}, nil
		}
		return nil, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), extension) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
