package savefolder

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"ispeaker/backend/service/shared"

	"github.com/rs/zerolog"
)

var errEmptyPath = errors.New("empty path")

// PathGuard decides whether a directory may become the data root.
type PathGuard interface {
	IsDenied(path string) bool
}

// Validator is the host PathGuard. The deny-list is rebuilt on every check since the
// set of home directories can change while the app runs.
type Validator struct {
	paths  shared.AppPaths
	logger zerolog.Logger
}

func NewValidator(paths shared.AppPaths, logger zerolog.Logger) *Validator {
	return &Validator{paths: paths, logger: logger}
}

// IsDenied canonicalizes candidate and checks it against the host deny-list.
// A path that cannot be resolved is denied.
func (v *Validator) IsDenied(candidate string) bool {
	resolved, err := canonical(candidate)
	if err != nil {
		v.logger.Error().Err(err).Str("path", candidate).Msg("error getting realpath")
		return true
	}

	matcher := v.matcher()
	entry, denied := matcher.Match(resolved)
	if denied {
		v.logger.Info().Str("path", resolved).Str("match", entry).Msg("path is restricted")
	} else {
		v.logger.Debug().Str("path", resolved).Msg("path allowed")
	}
	return denied
}

func (v *Validator) matcher() *DenyMatcher {
	env := PlatformEnv{
		GOOS:        runtime.GOOS,
		Home:        v.paths.Home,
		SystemDrive: os.Getenv("SystemDrive"),
		SystemRoot:  os.Getenv("SystemRoot"),
		AppPaths:    v.paths.Protected(),
		ListDirs:    subdirNames,
		OnError: func(dir string, err error) {
			v.logger.Error().Err(err).Str("dir", dir).Msg("error listing user directories")
		},
	}

	raw := DenyList(env)
	resolved := make([]string, 0, len(raw))
	for _, p := range raw {
		if c, err := canonical(p); err == nil {
			resolved = append(resolved, c)
		} else {
			resolved = append(resolved, absOrSelf(p))
		}
	}

	home := env.Home
	if home != "" {
		if c, err := canonical(home); err == nil {
			home = c
		}
	}
	return NewDenyMatcher(env.GOOS, home, resolved)
}

// canonical returns the absolute, symlink-resolved form of p.
func canonical(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", errEmptyPath
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

func absOrSelf(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

func subdirNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
