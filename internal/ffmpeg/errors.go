package ffmpeg

import (
	"fmt"
	"strings"
)

// stderrTailLines is how much ffmpeg diagnostic output is kept in error messages.
const stderrTailLines = 8

// ExecError is a failed ffmpeg invocation together with what it printed on stderr.
type ExecError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *ExecError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Args[0], e.Err)
	if t := StderrTail(e.Stderr, stderrTailLines); t != "" {
		msg += "\n" + t
	}
	return msg
}

func (e *ExecError) Unwrap() error { return e.Err }

// ProbeError means a file's width, height or duration could not be determined.
type ProbeError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe %s: %s: %v", e.Path, e.Reason, e.Err)
}

func (e *ProbeError) Unwrap() error { return e.Err }

// StderrTail returns the last n non-empty lines of s.
func StderrTail(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	kept := make([]string, 0, n)
	for i := len(lines) - 1; i >= 0 && len(kept) < n; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			kept = append(kept, l)
		}
	}
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}
	return strings.Join(kept, "\n")
}
