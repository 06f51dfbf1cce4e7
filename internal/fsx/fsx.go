package fsx

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

// Swappable so tests can simulate a failed rename.
var renameFunc = os.Rename

// CrossDeviceError reports a rename that failed because source and target are on different filesystems.
type CrossDeviceError struct {
	Src string
	Dst string
	Err error
}

func (e *CrossDeviceError) Error() string {
	return fmt.Sprintf("cannot move %q to %q across filesystems: %v", e.Src, e.Dst, e.Err)
}

func (e *CrossDeviceError) Unwrap() error { return e.Err }

// Rename wraps os.Rename and marks EXDEV failures as CrossDeviceError.
func Rename(src, dst string) error {
	if err := renameFunc(src, dst); err != nil {
		if isEXDEV(err) {
			return &CrossDeviceError{Src: src, Dst: dst, Err: err}
		}
		return err
	}
	return nil
}

// TempSibling reserves a hidden file next to path that keeps path's extension,
// so tools that pick a container from the name still see the right one.
// The caller owns the returned file and must remove it if it is not swapped in.
func TempSibling(path, tag string) (string, error) {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	f, err := os.CreateTemp(dir, "."+stem+"."+tag+"-*"+ext)
	if err != nil {
		return "", errors.Wrap(err, "failed to create temp file")
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		_ = os.Remove(name)
		return "", errors.WithStack(err)
	}
	return name, nil
}

// ReplaceFile atomically moves tmp over dst. dst is never removed first, so an
// interruption leaves either the old or the new content in place. tmp is
// removed when the swap fails.
func ReplaceFile(tmp, dst string) error {
	if fi, err := os.Stat(tmp); err != nil {
		return errors.Wrap(err, "replacement file missing")
	} else if fi.Size() == 0 {
		_ = os.Remove(tmp)
		return errors.Errorf("replacement file %s is empty", tmp)
	}

	if err := Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return errors.WithStack(err)
	}

	_ = syncDirBestEffort(filepath.Dir(dst))
	return nil
}

func syncDirBestEffort(dir string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
