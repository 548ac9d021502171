package shared

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSafeJoin_RejectsTraversal(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	if _, err := SafeJoin(base, filepath.Join("..", "escape.txt")); err == nil {
		t.Fatalf("expected traversal to be rejected")
	}
	got, err := SafeJoin(base, filepath.Join("recordings", "a.wav"))
	if err != nil {
		t.Fatalf("SafeJoin: %v", err)
	}
	if got != filepath.Join(base, "recordings", "a.wav") {
		t.Fatalf("unexpected join result %q", got)
	}
}

func TestIsWithin(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	cases := []struct {
		parent, child string
		want          bool
	}{
		{base, base, true},
		{base, filepath.Join(base, "a", "b"), true},
		{filepath.Join(base, "a"), filepath.Join(base, "ab"), false},
		{filepath.Join(base, "a", "b"), filepath.Join(base, "a"), false},
		{"", base, false},
	}
	for _, tc := range cases {
		if got := IsWithin(tc.parent, tc.child); got != tc.want {
			t.Fatalf("IsWithin(%q, %q) = %v, want %v", tc.parent, tc.child, got, tc.want)
		}
	}
}

func TestCheckWritable_LeavesNoMarker(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := CheckWritable(dir); err != nil {
		t.Fatalf("CheckWritable: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected marker to be removed, found %d entries", len(entries))
	}
}

func TestCheckWritable_MissingDirFails(t *testing.T) {
	t.Parallel()

	if err := CheckWritable(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("expected check on missing dir to fail")
	}
}

func TestCopyFile_CopiesBytesAndMode(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")
	payload := []byte{0, 1, 2, 255, 254}
	if err := os.WriteFile(src, payload, 0o640); err != nil {
		t.Fatalf("write src: %v", err)
	}

	n, err := CopyFile(src, dst)
	if err != nil {
		t.Fatalf("CopyFile: %v", err)
	}
	if n != int64(len(payload)) {
		t.Fatalf("expected %d bytes, got %d", len(payload), n)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read dst: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("content mismatch")
	}
}

func TestResolveAppPaths_HonoursOverrides(t *testing.T) {
	t.Parallel()

	userData := t.TempDir()
	docs := t.TempDir()
	p := ResolveAppPaths(userData, docs)

	if p.UserData != userData || p.Documents != docs {
		t.Fatalf("expected overrides to win, got %+v", p)
	}
	if p.DefaultSaveFolder() != filepath.Join(docs, AppName) {
		t.Fatalf("unexpected default save folder %q", p.DefaultSaveFolder())
	}
	if p.CrashDumps != filepath.Join(userData, "Crashpad") {
		t.Fatalf("unexpected crash dumps dir %q", p.CrashDumps)
	}
	for _, v := range p.Protected() {
		if strings.TrimSpace(v) == "" {
			t.Fatalf("protected list must not contain empty entries: %v", p.Protected())
		}
	}
}
