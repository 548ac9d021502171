package shared

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SafeJoin joins baseDir and rel and rejects path traversal.
//
// The mover uses it so a manifest entry can never write outside the destination root.
func SafeJoin(baseDir, rel string) (string, error) {
	target := filepath.Join(baseDir, rel)
	baseDirClean := filepath.Clean(baseDir)
	targetClean := filepath.Clean(target)
	if !strings.HasPrefix(targetClean, withSep(baseDirClean)) && targetClean != baseDirClean {
		return "", fmt.Errorf("invalid path traversal detected: %s", rel)
	}
	return targetClean, nil
}

// IsWithin reports whether child equals parent or lies below it.
// Comparison is lexical on cleaned absolute paths, so /a/bc is not within /a/b.
func IsWithin(parent, child string) bool {
	parent = absPath(parent)
	child = absPath(child)
	if parent == "" || child == "" {
		return false
	}
	parent = filepath.Clean(parent)
	child = filepath.Clean(child)
	if parent == child {
		return true
	}
	return strings.HasPrefix(child, withSep(parent))
}

func withSep(p string) string {
	if strings.HasSuffix(p, string(os.PathSeparator)) {
		return p
	}
	return p + string(os.PathSeparator)
}
