// Package compress orchestrates a single compression job from probe to
// finished file: probe the source, look up the preset, plan the encode, then
// either copy the source (when re-encoding would not help) or run the
// planned ffmpeg passes.
package compress

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"vidsqueeze/internal/display"
	"vidsqueeze/internal/ffmpeg"
	"vidsqueeze/internal/naming"
	"vidsqueeze/internal/planner"
	"vidsqueeze/internal/preset"
	"vidsqueeze/internal/probe"
)

// Runner executes a planned encode. Satisfied by *ffmpeg.Encoder; tests
// substitute a fake to exercise the flow without a transcoder binary.
type Runner interface {
	Encode(ctx context.Context, plan planner.EncodePlan, input, output, speed string) error
}

// Prober inspects a source file. Satisfied by a thin wrapper over
// probe.Probe; tests substitute canned results.
type Prober func(ctx context.Context, path string) (*probe.Result, error)

// Compressor turns compression requests into output files.
type Compressor struct {
	runner Runner
	prober Prober
	log    zerolog.Logger
}

// New builds a Compressor using the given ffmpeg and ffprobe binaries.
func New(ffmpegPath, ffprobePath string, log zerolog.Logger) *Compressor {
	return &Compressor{
		runner: ffmpeg.New(ffmpegPath),
		prober: func(ctx context.Context, path string) (*probe.Result, error) {
			return probe.Probe(ctx, ffprobePath, path)
		},
		log: log,
	}
}

// NewWithDeps builds a Compressor with explicit collaborators.
func NewWithDeps(runner Runner, prober Prober, log zerolog.Logger) *Compressor {
	return &Compressor{runner: runner, prober: prober, log: log}
}

// Compress processes one job and returns the resulting file size in MB.
// targetMB nil selects quality mode; non-nil selects target-size mode.
func (c *Compressor) Compress(ctx context.Context, input, output, presetName string, targetMB *int) (float64, error) {
	p, err := preset.Lookup(presetName)
	if err != nil {
		return 0, err
	}

	res, err := c.prober(ctx, input)
	if err != nil {
		return 0, fmt.Errorf("probe: %w", err)
	}
	if !res.HasVideo() {
		return 0, fmt.Errorf("%w in %s", probe.ErrNoVideoStream, input)
	}
	src := res.Source()

	plan := planner.Plan(src, p, targetMB)

	if plan.CopyOnly {
		c.log.Debug().
			Str("input", input).
			Str("reason", plan.CopyReason).
			Msg("copying without re-encode")
		if err := copyFile(input, output); err != nil {
			return 0, fmt.Errorf("copy: %w", err)
		}
		return naming.FileSizeMB(output)
	}

	c.log.Debug().
		Str("input", input).
		Str("video_bitrate", display.FormatBitrateLabel(int64(plan.VideoKbps))).
		Int("passes", plan.Passes).
		Str("scale", plan.ScaleFilter).
		Msg("encoding")

	if err := c.runner.Encode(ctx, plan, input, output, p.Speed); err != nil {
		return 0, err
	}
	return naming.FileSizeMB(output)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
