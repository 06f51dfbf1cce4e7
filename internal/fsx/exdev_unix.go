//go:build unix

package fsx

import (
	"os"
	"syscall"

	"github.com/pkg/errors"
)

// isEXDEV reports whether a rename failed only because the temp file and the
// video it replaces sit on different mounts. TempSibling avoids this, but a
// bind-mounted input file can still trigger it.
func isEXDEV(err error) bool {
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) {
		err = linkErr.Err
	}
	return errors.Is(err, syscall.EXDEV)
}
