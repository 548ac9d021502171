package savefolder

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"ispeaker/backend/service/shared"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listing(dirs map[string][]string) func(string) ([]string, error) {
	return func(dir string) ([]string, error) {
		names, ok := dirs[dir]
		if !ok {
			return nil, os.ErrNotExist
		}
		return names, nil
	}
}

func TestDenyList_Linux(t *testing.T) {
	t.Parallel()

	env := PlatformEnv{
		GOOS:     "linux",
		Home:     "/home/alice",
		AppPaths: []string{"/home/alice/.config/iSpeakerReact", "/tmp"},
		ListDirs: listing(map[string][]string{"/home": {"alice", "bob"}}),
	}
	m := NewDenyMatcher(env.GOOS, env.Home, DenyList(env))

	for _, p := range []string{"/", "/etc", "/etc/ssh", "/proc/1", "/usr/local/share", "/home/bob", "/home/bob/Documents", "/tmp/x", "/home/alice/.config/iSpeakerReact/cache"} {
		_, denied := m.Match(p)
		assert.True(t, denied, p)
	}
	for _, p := range []string{"/home/alice", "/home/alice/", "/home/alice/Music", "/home", "/data/ispeaker", "/etcetera"} {
		_, denied := m.Match(p)
		assert.False(t, denied, p)
	}
}

func TestDenyList_LinuxRootHome(t *testing.T) {
	t.Parallel()

	env := PlatformEnv{GOOS: "linux", Home: "/root"}
	m := NewDenyMatcher(env.GOOS, env.Home, DenyList(env))

	_, denied := m.Match("/root/Documents")
	assert.False(t, denied, "subfolders of the user's own home are allowed")
	_, denied = m.Match("/rooted")
	assert.False(t, denied)
	_, denied = m.Match("/var/lib")
	assert.True(t, denied)
}

func TestDenyList_Darwin(t *testing.T) {
	t.Parallel()

	env := PlatformEnv{
		GOOS:     "darwin",
		Home:     "/Users/alice",
		ListDirs: listing(map[string][]string{"/Users": {"Shared", "alice", "guest"}}),
	}
	list := DenyList(env)
	m := NewDenyMatcher(env.GOOS, env.Home, list)

	count := 0
	for _, e := range list {
		if e == "/Users/Shared" {
			count++
		}
	}
	assert.Equal(t, 1, count, "entries are de-duplicated")

	for _, p := range []string{"/System", "/Library/Fonts", "/Applications/Foo.app", "/Users/guest", "/Users/Shared/x", "/"} {
		_, denied := m.Match(p)
		assert.True(t, denied, p)
	}
	for _, p := range []string{"/Users/alice", "/Users/alice/Documents", "/Users", "/opt/data"} {
		_, denied := m.Match(p)
		assert.False(t, denied, p)
	}
}

func TestDenyList_WindowsIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	env := PlatformEnv{
		GOOS:        "windows",
		Home:        `C:\Users\Alice`,
		SystemDrive: "C:",
		ListDirs:    listing(map[string][]string{`C:\Users`: {"Alice", "Bob", "Public"}}),
	}
	m := NewDenyMatcher(env.GOOS, env.Home, DenyList(env))

	for _, p := range []string{`C:\`, `c:\windows`, `C:\Windows\System32\drivers`, `C:\PROGRAM FILES\App`, `C:\Users`, `C:\Users\Bob\Documents`, `c:\programdata`} {
		_, denied := m.Match(p)
		assert.True(t, denied, p)
	}
	for _, p := range []string{`C:\Users\Alice`, `c:\users\alice\Documents\iSpeaker`, `D:\Data`, `C:\Games`} {
		_, denied := m.Match(p)
		assert.False(t, denied, p)
	}
}

func TestDenyList_EnumerationFailureIsSkipped(t *testing.T) {
	t.Parallel()

	var failed []string
	env := PlatformEnv{
		GOOS: "linux",
		Home: "/home/alice",
		ListDirs: func(string) ([]string, error) {
			return nil, errors.New("permission denied")
		},
		OnError: func(dir string, _ error) { failed = append(failed, dir) },
	}
	list := DenyList(env)
	assert.Equal(t, []string{"/home"}, failed)
	assert.Contains(t, list, "/etc")
	assert.NotContains(t, list, "/home")
}

func TestValidator_IsDeterministic(t *testing.T) {
	t.Parallel()

	v := NewValidator(shared.AppPaths{Home: t.TempDir()}, zerolog.Nop())
	for _, p := range []string{"/etc", t.TempDir(), filepath.Join(t.TempDir(), "missing")} {
		first := v.IsDenied(p)
		assert.Equal(t, first, v.IsDenied(p), p)
	}
}

func TestValidator_HostPaths(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("unix paths")
	}

	home := t.TempDir()
	sub := filepath.Join(home, "ispeaker-data")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	v := NewValidator(shared.AppPaths{Home: home}, zerolog.Nop())
	assert.True(t, v.IsDenied("/etc"))
	assert.True(t, v.IsDenied("/"))
	assert.False(t, v.IsDenied(home))
	assert.False(t, v.IsDenied(sub))
	assert.True(t, v.IsDenied(filepath.Join(home, "does-not-exist")), "unresolvable paths fail closed")
	assert.True(t, v.IsDenied(""))
}

func TestValidator_AppPathsAreDenied(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("unix paths")
	}

	home := t.TempDir()
	userData := filepath.Join(home, ".config", "iSpeakerReact")
	require.NoError(t, os.MkdirAll(filepath.Join(userData, "cache"), 0o755))

	v := NewValidator(shared.AppPaths{Home: home, UserData: userData}, zerolog.Nop())
	assert.True(t, v.IsDenied(userData))
	assert.True(t, v.IsDenied(filepath.Join(userData, "cache")))
	assert.False(t, v.IsDenied(filepath.Join(home, ".config")))
}
