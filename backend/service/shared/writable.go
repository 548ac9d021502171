package shared

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// CheckWritable writes and immediately removes a marker file inside dir.
//
// The marker name carries the pid and a millisecond timestamp so two processes checking
// the same folder never collide. dir is not created.
func CheckWritable(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return fmt.Errorf("check writable: empty dir")
	}

	marker := filepath.Join(dir, fmt.Sprintf(".__ispeakerreact_test_%d_%d", os.Getpid(), time.Now().UnixMilli()))
	f, err := os.OpenFile(marker, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString("test"); err != nil {
		_ = f.Close()
		_ = os.Remove(marker)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(marker)
		return err
	}
	return os.Remove(marker)
}
