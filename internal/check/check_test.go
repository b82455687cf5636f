package check

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidsqueeze/internal/config"
)

func TestHasEncoder(t *testing.T) {
	const encoders = ` V....D libx264              libx264 H.264 / AVC / MPEG-4 AVC
 V....D libx264rgb           libx264 H.264 / AVC (RGB)
 A....D aac                  AAC (Advanced Audio Coding)`

	assert.True(t, hasEncoder(encoders, "libx264"))
	assert.True(t, hasEncoder(encoders, "aac"))
	assert.False(t, hasEncoder(encoders, "libx265"))
	// Substring of a longer encoder name must not match.
	assert.False(t, hasEncoder(" V....D libx264rgb  desc", "libx264"))
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "ffmpeg version 6.1", firstLine("ffmpeg version 6.1\nbuilt with gcc\n"))
	assert.Equal(t, "one", firstLine("one"))
	assert.Equal(t, "", firstLine("  \n"))
}

func TestCheckDeps_MissingFfmpeg(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.FFmpegPath = filepath.Join(t.TempDir(), "no-such-ffmpeg")

	err := CheckDeps(&cfg, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFfmpegNotFound)
}

func TestCheckDeps_YtDlpRequiredOnlyForDownloads(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stub not supported on windows")
	}
	dir := t.TempDir()
	// Stub ffmpeg reports a libx264-capable build; ffprobe just exits 0.
	ffmpeg := filepath.Join(dir, "ffmpeg")
	require.NoError(t, os.WriteFile(ffmpeg,
		[]byte("#!/bin/sh\necho ' V....D libx264  desc'\necho ' A....D aac  desc'\n"), 0o755))
	ffprobe := filepath.Join(dir, "ffprobe")
	require.NoError(t, os.WriteFile(ffprobe, []byte("#!/bin/sh\nexit 0\n"), 0o755))

	cfg := config.DefaultConfig()
	cfg.FFmpegPath = ffmpeg
	cfg.FFprobePath = ffprobe
	cfg.YtDlpPath = filepath.Join(dir, "no-such-yt-dlp")

	require.NoError(t, CheckDeps(&cfg, false))
	assert.ErrorIs(t, CheckDeps(&cfg, true), ErrYtDlpNotFound)
}

func TestCheckDeps_X264Missing(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stub not supported on windows")
	}
	dir := t.TempDir()
	ffmpeg := filepath.Join(dir, "ffmpeg")
	require.NoError(t, os.WriteFile(ffmpeg,
		[]byte("#!/bin/sh\necho ' V....D mpeg4  desc'\n"), 0o755))
	ffprobe := filepath.Join(dir, "ffprobe")
	require.NoError(t, os.WriteFile(ffprobe, []byte("#!/bin/sh\nexit 0\n"), 0o755))

	cfg := config.DefaultConfig()
	cfg.FFmpegPath = ffmpeg
	cfg.FFprobePath = ffprobe

	assert.ErrorIs(t, CheckDeps(&cfg, false), ErrX264Missing)
}
