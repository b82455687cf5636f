package ffmpeg

import "fmt"

// EncodeError reports a transcoder invocation that exited non-zero. Stderr
// is kept for diagnostics; callers decide whether to surface it.
type EncodeError struct {
	Pass     int // 0 for single-pass runs.
	ExitCode int
	Stderr   string
	err      error
}

func (e *EncodeError) Error() string {
	if e.Pass > 0 {
		return fmt.Sprintf("ffmpeg pass %d failed (exit code %d)", e.Pass, e.ExitCode)
	}
	return fmt.Sprintf("ffmpeg failed (exit code %d)", e.ExitCode)
}

func (e *EncodeError) Unwrap() error { return e.err }
