package savefolder

import (
	"os"
	"path/filepath"
	"strings"

	"ispeaker/backend/service/shared"
)

// ShouldMove reports whether the contents of src may be transferred into dest:
// both are non-empty, distinct, existing directories and neither contains the other
// once symlinks are resolved.
func ShouldMove(src, dest string) bool {
	if strings.TrimSpace(src) == "" || strings.TrimSpace(dest) == "" {
		return false
	}
	if !isDir(src) || !isDir(dest) {
		return false
	}
	return disjoint(src, dest)
}

// disjoint compares resolved paths, so a link pointing into the other tree counts as
// overlap. Equal paths overlap.
func disjoint(a, b string) bool {
	a, b = resolve(a), resolve(b)
	return !shared.IsWithin(a, b) && !shared.IsWithin(b, a)
}

// resolve returns the absolute symlink-free form of path, falling back to the cleaned
// absolute path when it does not exist yet.
func resolve(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if real, err := filepath.EvalSymlinks(path); err == nil {
		return real
	}
	return filepath.Clean(path)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
