package savefolder

import (
	"io/fs"
	"path/filepath"
)

// FileEntry is one leaf file found under a root.
type FileEntry struct {
	AbsPath string
	RelPath string
}

// ListAllFiles walks root depth-first and returns every non-directory entry.
//
// Symlinks are reported as files and are followed by the copy. Any read error aborts
// the walk; a partial manifest is never returned.
func ListAllFiles(root string) ([]FileEntry, error) {
	var files []FileEntry
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, FileEntry{AbsPath: path, RelPath: rel})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// listDirs returns root and every directory below it, parents before children.
func listDirs(root string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dirs, nil
}
