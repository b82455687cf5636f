// Package planner computes the encode parameters for a single compression
// job: scale filter, target bitrates, and pass count. It is pure -- no I/O,
// no subprocesses -- so every decision is testable without media files.
//
// Two modes exist. Target-size mode (a target in MB was given) budgets the
// bitrate to hit the size and uses 2-pass encoding, which is slower but
// bounds output size precisely. Quality mode scales the source bitrate by
// the preset multiplier and uses a single pass, which suffices when only a
// relative reduction is wanted.
package planner

import (
	"fmt"

	"vidsqueeze/internal/preset"
	"vidsqueeze/internal/probe"
)

const (
	// AudioKbps is the fixed AAC audio bitrate for all encodes.
	AudioKbps = 96

	// KbitPerMB converts megabytes to kilobits (1024 * 8).
	KbitPerMB = 8192

	// CopySlackMB is subtracted from the target size before the
	// already-small-enough check, absorbing container/filesystem overhead
	// so a file just under budget is never needlessly re-encoded.
	CopySlackMB = 0.2

	// TargetSizeFloorKbps is the minimum video bitrate in target-size mode.
	TargetSizeFloorKbps = 300

	// QualityFloorKbps is the minimum video bitrate in quality mode.
	QualityFloorKbps = 350

	// FallbackKbps is used in quality mode when the source bitrate is unknown.
	FallbackKbps = 1200
)

// EncodePlan holds the complete set of encode parameters for one job.
// Computed fresh per job and never persisted.
type EncodePlan struct {
	ScaleFilter string // ffmpeg -vf value; height capped, width preserves aspect.
	VideoKbps   int
	AudioKbps   int
	Passes      int // 1 or 2; meaningless when CopyOnly.

	// CopyOnly means re-encoding would not help: the caller should copy the
	// source file to the output path verbatim. CopyReason says why.
	CopyOnly   bool
	CopyReason string
}

// Plan computes the encode plan from source metadata, a preset, and an
// optional target size in MB (nil selects quality mode).
func Plan(src probe.SourceInfo, p preset.Config, targetMB *int) EncodePlan {
	plan := EncodePlan{
		ScaleFilter: ScaleFilter(p.MaxHeight),
		AudioKbps:   AudioKbps,
	}

	if targetMB != nil {
		planTargetSize(&plan, src, *targetMB)
		return plan
	}
	planQuality(&plan, src, p)
	return plan
}

// planTargetSize fills in the 2-pass size-budgeted parameters, or marks the
// plan copy-only when the source already fits under the target.
func planTargetSize(plan *EncodePlan, src probe.SourceInfo, targetMB int) {
	if src.SizeMB <= float64(targetMB)-CopySlackMB {
		plan.CopyOnly = true
		plan.CopyReason = fmt.Sprintf("source %.2f MB already under %d MB target", src.SizeMB, targetMB)
		return
	}

	totalKbps := 0
	if src.DurationSeconds > 0 {
		totalKbps = int(float64(targetMB) * KbitPerMB / src.DurationSeconds)
	}
	plan.VideoKbps = max(totalKbps-AudioKbps, TargetSizeFloorKbps)
	plan.Passes = 2
}

// planQuality fills in the single-pass quality-mode parameters, or marks the
// plan copy-only when the preset would not shrink the stream. The skip check
// compares the source bitrate against the computed target, after the floor
// is applied, not against the raw multiplier result.
func planQuality(plan *EncodePlan, src probe.SourceInfo, p preset.Config) {
	if src.BitrateKbps > 0 {
		plan.VideoKbps = max(int(float64(src.BitrateKbps)*p.VideoKbpsMult), QualityFloorKbps)
	} else {
		plan.VideoKbps = FallbackKbps
	}

	if src.BitrateKbps > 0 && src.BitrateKbps <= plan.VideoKbps {
		plan.CopyOnly = true
		plan.CopyReason = fmt.Sprintf("source bitrate %d kbps at or below target %d kbps", src.BitrateKbps, plan.VideoKbps)
		return
	}
	plan.Passes = 1
}

// ScaleFilter returns the ffmpeg scale filter capping output height at
// maxHeight with an even, aspect-preserving width.
func ScaleFilter(maxHeight int) string {
	return fmt.Sprintf("scale=-2:%d", maxHeight)
}
