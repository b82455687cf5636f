package ffmpeg

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidsqueeze/internal/planner"
)

// stubFFmpeg writes a shell script standing in for ffmpeg. It creates
// pass-log files at the -passlogfile prefix (as real ffmpeg does) and exits
// with failCode when the argument list matches failOn.
func stubFFmpeg(t *testing.T, failOn string, failCode int) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stub not supported on windows")
	}

	script := `#!/bin/sh
prev=""
for a in "$@"; do
  if [ "$prev" = "-passlogfile" ]; then
    touch "$a-0.log" "$a-0.log.mbtree"
  fi
  prev="$a"
done
`
	if failOn != "" {
		script += `case "$*" in *"` + failOn + `"*) exit ` + strconv.Itoa(failCode) + `;; esac
`
	}
	script += "exit 0\n"

	path := filepath.Join(t.TempDir(), "ffmpeg")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func passLogDirs(t *testing.T) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(os.TempDir(), "vidsqueeze-pass-*"))
	require.NoError(t, err)
	return matches
}

func TestEncode_TwoPassSuccessCleansPassLogs(t *testing.T) {
	enc := New(stubFFmpeg(t, "", 0))
	plan := planner.EncodePlan{ScaleFilter: "scale=-2:720", VideoKbps: 700, AudioKbps: 96, Passes: 2}

	before := len(passLogDirs(t))
	err := enc.Encode(context.Background(), plan, "in.mp4", filepath.Join(t.TempDir(), "out.mp4"), "slow")
	require.NoError(t, err)
	assert.Len(t, passLogDirs(t), before, "pass-log dir must be removed on success")
}

func TestEncode_TwoPassFailureStillCleansPassLogs(t *testing.T) {
	enc := New(stubFFmpeg(t, "-pass 2", 3))
	plan := planner.EncodePlan{ScaleFilter: "scale=-2:480", VideoKbps: 300, AudioKbps: 96, Passes: 2}

	before := len(passLogDirs(t))
	err := enc.Encode(context.Background(), plan, "in.mp4", filepath.Join(t.TempDir(), "out.mp4"), "medium")

	var encErr *EncodeError
	require.ErrorAs(t, err, &encErr)
	assert.Equal(t, 2, encErr.Pass)
	assert.Equal(t, 3, encErr.ExitCode)
	assert.Len(t, passLogDirs(t), before, "pass-log dir must be removed on failure too")
}

func TestEncode_SinglePass(t *testing.T) {
	enc := New(stubFFmpeg(t, "", 0))
	plan := planner.EncodePlan{ScaleFilter: "scale=-2:1080", VideoKbps: 1200, AudioKbps: 96, Passes: 1}

	err := enc.Encode(context.Background(), plan, "in.mp4", filepath.Join(t.TempDir(), "out.mp4"), "slow")
	require.NoError(t, err)
}

func TestRunPass_MissingBinary(t *testing.T) {
	enc := New(filepath.Join(t.TempDir(), "no-such-ffmpeg"))
	err := enc.RunPass(context.Background(), PassSpec{
		Plan:      planner.EncodePlan{ScaleFilter: "scale=-2:720", VideoKbps: 500, AudioKbps: 96},
		InputPath: "in.mp4", OutputPath: "out.mp4", Speed: "slow",
	})

	var encErr *EncodeError
	require.ErrorAs(t, err, &encErr)
	assert.Equal(t, -1, encErr.ExitCode)
}
