package shared

import (
	"io"
	"os"
)

// CopyFile copies srcPath to dstPath, truncating any existing destination and keeping the
// source permission bits. Symlinks are followed. It returns the number of bytes written.
func CopyFile(srcPath, dstPath string) (int64, error) {
	srcInfo, err := os.Stat(srcPath)
	if err != nil {
		return 0, err
	}

	in, err := os.Open(srcPath)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.OpenFile(dstPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return 0, err
	}
	defer func() { _ = out.Close() }()

	n, err := io.Copy(out, in)
	if err != nil {
		return n, err
	}
	return n, out.Close()
}
