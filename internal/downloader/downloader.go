// Package downloader fetches remote videos via the external yt-dlp binary.
// The tool's site-specific extraction logic is consumed as a black box; this
// package only parameterizes the invocation and recovers the output path.
package downloader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// defaultFormat prefers H.264/MP4 video plus M4A audio for wide playback
// compatibility, falling back to the best single MP4.
const defaultFormat = "bv*[vcodec^=avc1][ext=mp4]+ba[ext=m4a]/b[ext=mp4]"

// outputTemplate names downloads after the video title.
const outputTemplate = "%(title)s.%(ext)s"

// DownloadError reports a failed downloader invocation.
type DownloadError struct {
	ExitCode int
	Stderr   string
	err      error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("yt-dlp failed (exit code %d)", e.ExitCode)
}

func (e *DownloadError) Unwrap() error { return e.err }

// Downloader runs yt-dlp as a blocking subprocess.
type Downloader struct {
	YtDlpPath string
}

// New returns a Downloader invoking the given yt-dlp binary.
func New(ytDlpPath string) *Downloader {
	return &Downloader{YtDlpPath: ytDlpPath}
}

// Download fetches url into outDir, merging best video+audio into a single
// MP4, and returns the path of the downloaded file.
func (d *Downloader) Download(ctx context.Context, url, outDir string) (string, error) {
	args := []string{
		"-f", defaultFormat,
		"--merge-output-format", "mp4",
		"-o", strings.TrimRight(outDir, "/") + "/" + outputTemplate,
		"--no-progress",
		"--no-simulate",
		"--print", "after_move:filepath",
		url,
	}
	cmd := exec.CommandContext(ctx, d.YtDlpPath, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return "", &DownloadError{ExitCode: exitCode, Stderr: stderr.String(), err: err}
	}

	// --print emits one line per downloaded entry; take the last non-empty
	// line so playlists of one and plain videos behave the same.
	path := lastLine(stdout.String())
	if path == "" {
		return "", fmt.Errorf("yt-dlp reported no output file for %s", url)
	}
	return path, nil
}

// IsURL reports whether the input names a remote video rather than a local file.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}
