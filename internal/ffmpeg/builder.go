package ffmpeg

import (
	"fmt"
	"os"

	"vidsqueeze/internal/planner"
)

// PassSpec carries everything needed to build one transcoder invocation.
type PassSpec struct {
	Plan       planner.EncodePlan
	Pass       int    // 1 or 2 for 2-pass runs; 0 for a single-pass encode.
	InputPath  string
	OutputPath string
	Speed      string // x264 speed preset from the compression preset.

	// PassLogPrefix is the -passlogfile prefix for 2-pass statistics.
	// Unique per job so concurrent workers never clobber each other's logs.
	PassLogPrefix string
}

// BuildArgs constructs the complete argument slice for one ffmpeg
// invocation, binary name first. The command is derived purely from the
// spec: same spec, same args.
//
// Pass 1 is analysis-only: audio is dropped and output goes to the platform
// null sink. Pass 2 and single-pass runs write the real MP4 with AAC audio
// and the faststart flag for streaming-friendly playback.
func BuildArgs(ffmpegPath string, spec PassSpec) []string {
	args := make([]string, 0, 32)
	args = append(args,
		ffmpegPath,
		"-y", "-hide_banner", "-nostdin",
		"-loglevel", "error",
		"-i", spec.InputPath,
		"-vf", spec.Plan.ScaleFilter,
		"-c:v", "libx264",
		"-b:v", fmt.Sprintf("%dk", spec.Plan.VideoKbps),
	)

	if spec.Pass > 0 {
		args = append(args,
			"-pass", fmt.Sprintf("%d", spec.Pass),
			"-passlogfile", spec.PassLogPrefix,
		)
	}

	args = append(args, "-preset", spec.Speed)

	if spec.Pass == 1 {
		return append(args, "-an", "-f", "mp4", os.DevNull)
	}

	args = append(args,
		"-c:a", "aac",
		"-b:a", fmt.Sprintf("%dk", spec.Plan.AudioKbps),
		"-movflags", "+faststart",
	)
	return append(args, spec.OutputPath)
}
