package savefolder

import (
	"os"
	"path/filepath"
)

const (
	// DataSubfolder is created under a user-chosen custom folder so the app never takes
	// over the whole directory.
	DataSubfolder = "ispeakerreact_data"

	// VenvDirName is the pronunciation checker's Python virtual environment.
	VenvDirName = "pronunciation-venv"

	LogsDirName = "logs"
)

// DataSubfolderPath returns <base>/ispeakerreact_data.
func DataSubfolderPath(base string) string {
	return filepath.Join(base, DataSubfolder)
}

// DeleteEmptyDataSubfolder removes <base>/ispeakerreact_data only when it is empty.
// base itself is never touched. Any error is treated as "nothing removed".
func DeleteEmptyDataSubfolder(base string) bool {
	if base == "" {
		return false
	}
	dataFolder := DataSubfolderPath(base)
	entries, err := os.ReadDir(dataFolder)
	if err != nil || len(entries) != 0 {
		return false
	}
	return os.Remove(dataFolder) == nil
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}
