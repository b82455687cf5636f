package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"vidsqueeze/internal/planner"
)

// Encoder runs ffmpeg as a blocking subprocess.
type Encoder struct {
	FFmpegPath string
}

// New returns an Encoder invoking the given ffmpeg binary ("ffmpeg"
// resolves via PATH).
func New(ffmpegPath string) *Encoder {
	return &Encoder{FFmpegPath: ffmpegPath}
}

// Encode runs the full encode for a plan: one pass in quality mode, or the
// sequential analysis+encode pair in target-size mode. The per-job pass-log
// directory is removed when Encode returns, regardless of outcome.
func (e *Encoder) Encode(ctx context.Context, plan planner.EncodePlan, input, output, speed string) error {
	if plan.Passes < 2 {
		return e.RunPass(ctx, PassSpec{
			Plan:       plan,
			InputPath:  input,
			OutputPath: output,
			Speed:      speed,
		})
	}

	logDir, err := os.MkdirTemp("", "vidsqueeze-pass-")
	if err != nil {
		return fmt.Errorf("create pass-log dir: %w", err)
	}
	defer os.RemoveAll(logDir)

	for pass := 1; pass <= 2; pass++ {
		spec := PassSpec{
			Plan:          plan,
			Pass:          pass,
			InputPath:     input,
			OutputPath:    output,
			Speed:         speed,
			PassLogPrefix: filepath.Join(logDir, "ffmpeg2pass"),
		}
		if err := e.RunPass(ctx, spec); err != nil {
			return err
		}
	}
	return nil
}

// RunPass executes a single transcoder invocation, blocking until it exits.
// Output is suppressed from the caller's terminal but captured for
// diagnostics; a non-zero exit surfaces as *EncodeError.
func (e *Encoder) RunPass(ctx context.Context, spec PassSpec) error {
	args := BuildArgs(e.FFmpegPath, spec)
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var outBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &outBuf

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return &EncodeError{
			Pass:     spec.Pass,
			ExitCode: exitCode,
			Stderr:   outBuf.String(),
			err:      err,
		}
	}
	return nil
}
