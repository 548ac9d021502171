package savefolder

import (
	"sort"
	"strings"
)

// PlatformEnv is everything the deny-list depends on, injected so every platform's list
// can be built and checked on any host.
type PlatformEnv struct {
	GOOS string
	Home string

	// Windows only. Defaults: SystemDrive "C:", SystemRoot "<SystemDrive>\Windows".
	SystemDrive string
	SystemRoot  string

	// AppPaths are the application's own directories (userData, exe, appData, temp,
	// logs, crashDumps).
	AppPaths []string

	// ListDirs returns the names of the subdirectories of dir. Used to enumerate other
	// users' home directories. nil disables enumeration.
	ListDirs func(dir string) ([]string, error)

	// OnError is called when enumeration fails; the subtraction is skipped.
	OnError func(dir string, err error)
}

var (
	darwinDenied = []string{
		"/System", "/Library", "/bin", "/sbin", "/usr", "/private", "/etc", "/var",
		"/Applications", "/Users/Shared", "/Network", "/Volumes", "/cores",
	}
	unixVirtual  = []string{"/proc", "/sys", "/dev"}
	unixStandard = []string{
		"/bin", "/boot", "/etc", "/lib", "/lib64", "/media", "/mnt", "/opt",
		"/root", "/run", "/sbin", "/srv", "/tmp", "/usr", "/var",
	}
)

// DenyList builds the ordered, de-duplicated list of forbidden locations for env.
// Entries are raw paths in env's separator convention; see DenyMatcher for comparison.
func DenyList(env PlatformEnv) []string {
	var list []string
	switch env.GOOS {
	case "windows":
		drive := strings.TrimRight(env.SystemDrive, `\/`)
		if drive == "" {
			drive = "C:"
		}
		systemRoot := env.SystemRoot
		if systemRoot == "" {
			systemRoot = joinFor(env.GOOS, drive, "Windows")
		}
		usersDir := joinFor(env.GOOS, drive, "Users")
		list = append(list,
			drive+`\`,
			systemRoot,
			joinFor(env.GOOS, drive, "Program Files"),
			joinFor(env.GOOS, drive, "Program Files (x86)"),
			usersDir,
			joinFor(env.GOOS, systemRoot, "System32"),
			joinFor(env.GOOS, systemRoot, "SysWOW64"),
			joinFor(env.GOOS, drive, "ProgramData"),
			joinFor(env.GOOS, drive, "Recovery"),
			joinFor(env.GOOS, drive, "Boot"),
		)
		list = append(list, otherHomes(env, usersDir)...)
	case "darwin":
		list = append(list, darwinDenied...)
		list = append(list, "/")
		list = append(list, otherHomes(env, "/Users")...)
	default:
		list = append(list, unixVirtual...)
		list = append(list, unixStandard...)
		list = append(list, "/")
		list = append(list, otherHomes(env, "/home")...)
	}
	list = append(list, env.AppPaths...)

	seen := make(map[string]struct{}, len(list))
	out := list[:0]
	for _, p := range list {
		if strings.TrimSpace(p) == "" {
			continue
		}
		key := normalizeFor(env.GOOS, p)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}

func otherHomes(env PlatformEnv, usersDir string) []string {
	if env.ListDirs == nil {
		return nil
	}
	names, err := env.ListDirs(usersDir)
	if err != nil {
		if env.OnError != nil {
			env.OnError(usersDir, err)
		}
		return nil
	}
	sort.Strings(names)
	home := normalizeFor(env.GOOS, env.Home)
	var out []string
	for _, name := range names {
		dir := joinFor(env.GOOS, usersDir, name)
		if normalizeFor(env.GOOS, dir) == home {
			continue
		}
		out = append(out, dir)
	}
	return out
}

// DenyMatcher compares canonical candidate paths against a deny-list.
type DenyMatcher struct {
	goos    string
	home    string
	entries []string
}

// NewDenyMatcher normalizes entries and home for goos. Entries equal to home are dropped.
func NewDenyMatcher(goos, home string, entries []string) *DenyMatcher {
	m := &DenyMatcher{goos: goos}
	if strings.TrimSpace(home) != "" {
		m.home = normalizeFor(goos, home)
	}
	for _, e := range entries {
		n := normalizeFor(goos, e)
		if n == "" || n == m.home {
			continue
		}
		m.entries = append(m.entries, n)
	}
	return m
}

// Match returns the first entry denying candidate. candidate must already be absolute
// and symlink-resolved.
//
// The home directory is always allowed. Inside home only entries that are themselves
// below home apply, so a parent such as C:\Users does not swallow the user's own tree.
// Filesystem roots match by equality only.
func (m *DenyMatcher) Match(candidate string) (string, bool) {
	c := normalizeFor(m.goos, candidate)
	if c == "" {
		return "", true
	}
	inHome := false
	if m.home != "" && !isRootFor(m.goos, m.home) {
		if c == m.home {
			return "", false
		}
		inHome = strings.HasPrefix(c, m.home+sepFor(m.goos))
	}

	for _, e := range m.entries {
		if isRootFor(m.goos, e) {
			if c == e {
				return e, true
			}
			continue
		}
		if inHome && (e == m.home || strings.HasPrefix(m.home, e+sepFor(m.goos))) {
			continue
		}
		if c == e || strings.HasPrefix(c, e+sepFor(m.goos)) {
			return e, true
		}
	}
	return "", false
}

func sepFor(goos string) string {
	if goos == "windows" {
		return `\`
	}
	return "/"
}

func joinFor(goos, base, name string) string {
	sep := sepFor(goos)
	return strings.TrimRight(base, `\/`) + sep + strings.Trim(name, `\/`)
}

func isRootFor(goos, p string) bool {
	if goos == "windows" {
		return p == `\` || (len(p) == 3 && p[1] == ':' && p[2] == '\\')
	}
	return p == "/"
}

// normalizeFor strips trailing separators (roots keep theirs) and case-folds on Windows.
func normalizeFor(goos, p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	sep := sepFor(goos)
	if goos == "windows" {
		p = strings.ToLower(strings.ReplaceAll(p, "/", `\`))
		if len(p) == 2 && p[1] == ':' {
			return p + sep
		}
	}
	for len(p) > 1 && strings.HasSuffix(p, sep) && !isRootFor(goos, p) {
		p = strings.TrimSuffix(p, sep)
	}
	return p
}
