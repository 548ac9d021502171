package shared

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	// EnvUserDataDir aligns with Electron app.getPath("userData") and forces the backend
	// to use the exact same directory.
	EnvUserDataDir = "ISPEAKER_USER_DATA_DIR"

	// EnvDocumentsDir overrides the documents directory the default save folder lives in.
	EnvDocumentsDir = "ISPEAKER_DOCUMENTS_DIR"

	AppName = "iSpeakerReact"
)

// UserDataRoot returns the per-user data root directory.
//
// Default (no EnvUserDataDir):
// - Linux: ~/.config/iSpeakerReact
// - macOS: ~/Library/Application Support/iSpeakerReact
// - Windows: %APPDATA%\iSpeakerReact
func UserDataRoot() string {
	if configured := strings.TrimSpace(os.Getenv(EnvUserDataDir)); configured != "" {
		return absPath(configured)
	}

	base, err := os.UserConfigDir()
	if err == nil && strings.TrimSpace(base) != "" {
		return absPath(filepath.Join(base, AppName))
	}

	home, err := os.UserHomeDir()
	if err == nil && strings.TrimSpace(home) != "" {
		return absPath(filepath.Join(home, ".ispeakerreact"))
	}

	if tmp := strings.TrimSpace(os.TempDir()); tmp != "" {
		return absPath(filepath.Join(tmp, AppName))
	}

	return ""
}

// DocumentsDir mirrors app.getPath("documents").
func DocumentsDir() string {
	if configured := strings.TrimSpace(os.Getenv(EnvDocumentsDir)); configured != "" {
		return absPath(configured)
	}
	if runtime.GOOS == "linux" {
		if xdg := strings.TrimSpace(os.Getenv("XDG_DOCUMENTS_DIR")); xdg != "" {
			return absPath(xdg)
		}
	}
	home, err := os.UserHomeDir()
	if err != nil || strings.TrimSpace(home) == "" {
		return ""
	}
	return absPath(filepath.Join(home, "Documents"))
}

// AppPaths is the Go side of Electron's app.getPath table.
type AppPaths struct {
	Home       string
	UserData   string
	AppData    string
	Documents  string
	Exe        string
	Temp       string
	Logs       string
	CrashDumps string
}

// ResolveAppPaths fills every entry; empty overrides fall back to UserDataRoot/DocumentsDir.
func ResolveAppPaths(userDataOverride, documentsOverride string) AppPaths {
	p := AppPaths{
		UserData:  absPath(userDataOverride),
		Documents: absPath(documentsOverride),
		Exe:       executablePath(),
		Temp:      absPath(os.TempDir()),
	}
	if p.UserData == "" {
		p.UserData = UserDataRoot()
	}
	if p.Documents == "" {
		p.Documents = DocumentsDir()
	}
	if home, err := os.UserHomeDir(); err == nil {
		p.Home = absPath(home)
	}
	if base, err := os.UserConfigDir(); err == nil {
		p.AppData = absPath(base)
	}

	if runtime.GOOS == "darwin" && p.Home != "" {
		p.Logs = filepath.Join(p.Home, "Library", "Logs", AppName)
	} else if p.UserData != "" {
		p.Logs = filepath.Join(p.UserData, "logs")
	}
	if p.UserData != "" {
		p.CrashDumps = filepath.Join(p.UserData, "Crashpad")
	}
	return p
}

// Protected lists the application's own directories that must never become a data root.
func (p AppPaths) Protected() []string {
	out := make([]string, 0, 6)
	for _, v := range []string{p.UserData, p.Exe, p.AppData, p.Temp, p.Logs, p.CrashDumps} {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

// DefaultSaveFolder is <Documents>/iSpeakerReact.
func (p AppPaths) DefaultSaveFolder() string {
	if p.Documents == "" {
		return ""
	}
	return filepath.Join(p.Documents, AppName)
}

// SettingsPath is where the Electron store and the backend share user settings.
func (p AppPaths) SettingsPath(fileName string) string {
	return filepath.Join(p.UserData, fileName)
}

func executablePath() string {
	exePath, err := os.Executable()
	if err != nil {
		return ""
	}
	if realPath, err := filepath.EvalSymlinks(exePath); err == nil {
		exePath = realPath
	}
	return exePath
}

func absPath(path string) string {
	if strings.TrimSpace(path) == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
