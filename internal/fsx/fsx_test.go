package fsx

import (
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"github.com/pkg/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestTempSiblingKeepsExtension(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "clip.mp4")

	tmp, err := TempSibling(src, "normalizing")
	if err != nil {
		t.Fatalf("TempSibling: %v", err)
	}
	if filepath.Dir(tmp) != dir {
		t.Fatalf("temp file %s not next to %s", tmp, src)
	}
	base := filepath.Base(tmp)
	if !strings.HasPrefix(base, ".clip.normalizing-") || filepath.Ext(base) != ".mp4" {
		t.Fatalf("unexpected temp name %q", base)
	}
	if _, err := os.Stat(tmp); err != nil {
		t.Fatalf("temp file not created: %v", err)
	}
}

func TestReplaceFileSwapsContent(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "clip.mp4")
	tmp := filepath.Join(dir, ".clip.normalizing-1.mp4")
	writeFile(t, dst, "old")
	writeFile(t, tmp, "new")

	if err := ReplaceFile(tmp, dst); err != nil {
		t.Fatalf("ReplaceFile: %v", err)
	}
	b, _ := os.ReadFile(dst)
	if string(b) != "new" {
		t.Fatalf("dst content = %q", b)
	}
	if _, err := os.Stat(tmp); !os.IsNotExist(err) {
		t.Fatalf("temp file should be gone, stat err = %v", err)
	}
}

func TestReplaceFileRenameFailKeepsOriginal(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "clip.mp4")
	tmp := filepath.Join(dir, ".clip.normalizing-1.mp4")
	writeFile(t, dst, "old")
	writeFile(t, tmp, "new")

	old := renameFunc
	renameFunc = func(oldpath, newpath string) error {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EXDEV}
	}
	defer func() { renameFunc = old }()

	err := ReplaceFile(tmp, dst)
	if err == nil {
		t.Fatal("expected error")
	}
	var cde *CrossDeviceError
	if !errors.As(err, &cde) {
		t.Fatalf("expected CrossDeviceError, got %T %v", err, err)
	}
	b, _ := os.ReadFile(dst)
	if string(b) != "old" {
		t.Fatalf("original clobbered: %q", b)
	}
	if _, err := os.Stat(tmp); !os.IsNotExist(err) {
		t.Fatalf("temp file not cleaned up")
	}
}

func TestReplaceFileRejectsEmptyReplacement(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "clip.mp4")
	tmp := filepath.Join(dir, ".clip.normalizing-1.mp4")
	writeFile(t, dst, "old")
	writeFile(t, tmp, "")

	if err := ReplaceFile(tmp, dst); err == nil {
		t.Fatal("expected error for empty replacement")
	}
	b, _ := os.ReadFile(dst)
	if string(b) != "old" {
		t.Fatalf("original clobbered: %q", b)
	}
}
