// Package check provides system diagnostics (--check mode) and pre-run
// dependency validation for ffmpeg, ffprobe, and yt-dlp.
package check

import (
	"errors"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"vidsqueeze/internal/config"
)

// Sentinel errors returned by CheckDeps when a required tool is missing.
var (
	ErrFfmpegNotFound  = errors.New("ffmpeg not found")
	ErrFfprobeNotFound = errors.New("ffprobe not found")
	ErrYtDlpNotFound   = errors.New("yt-dlp not found")
	ErrX264Missing     = errors.New("ffmpeg build lacks the libx264 encoder")
)

// RunCheck runs the interactive --check flow: reports availability and
// versions of ffmpeg, ffprobe, and yt-dlp, plus the encoders compression
// depends on. Informational only, it does not stop on failure.
func RunCheck(cfg *config.Config, log zerolog.Logger) {
	log.Info().Msg("=== System Check ===")

	checkVersion(log, "ffmpeg", cfg.FFmpegPath, "-version")
	checkVersion(log, "ffprobe", cfg.FFprobePath, "-version")
	checkVersion(log, "yt-dlp", cfg.YtDlpPath, "--version")
	checkEncoders(cfg, log)
}

// checkVersion verifies the binary resolves and logs its version line.
func checkVersion(log zerolog.Logger, name, path, versionFlag string) {
	if _, err := exec.LookPath(path); err != nil {
		log.Error().Str("tool", name).Str("path", path).Msg("not found")
		return
	}
	out, err := exec.Command(path, versionFlag).Output()
	if err != nil {
		log.Warn().Str("tool", name).Err(err).Msg("found but version query failed")
		return
	}
	log.Info().Str("tool", name).Str("version", firstLine(string(out))).Msg("ok")
}

// checkEncoders confirms the ffmpeg build carries libx264 and aac.
func checkEncoders(cfg *config.Config, log zerolog.Logger) {
	out, err := exec.Command(cfg.FFmpegPath, "-hide_banner", "-encoders").Output()
	if err != nil {
		log.Warn().Err(err).Msg("could not list ffmpeg encoders")
		return
	}
	for _, enc := range []string{"libx264", "aac"} {
		if hasEncoder(string(out), enc) {
			log.Info().Str("encoder", enc).Msg("available")
		} else {
			log.Error().Str("encoder", enc).Msg("missing")
		}
	}
}

// CheckDeps is the pre-run validation: ffmpeg and ffprobe must resolve, the
// ffmpeg build must carry libx264, and yt-dlp is required only when a URL
// input needs downloading. Returns a sentinel error on failure.
func CheckDeps(cfg *config.Config, needDownloader bool) error {
	if _, err := exec.LookPath(cfg.FFmpegPath); err != nil {
		return ErrFfmpegNotFound
	}
	if _, err := exec.LookPath(cfg.FFprobePath); err != nil {
		return ErrFfprobeNotFound
	}
	if out, err := exec.Command(cfg.FFmpegPath, "-hide_banner", "-encoders").Output(); err == nil {
		if !hasEncoder(string(out), "libx264") {
			return ErrX264Missing
		}
	}
	if needDownloader {
		if _, err := exec.LookPath(cfg.YtDlpPath); err != nil {
			return ErrYtDlpNotFound
		}
	}
	return nil
}

// hasEncoder scans `ffmpeg -encoders` output for an exact encoder name.
func hasEncoder(encoders, name string) bool {
	for _, line := range strings.Split(encoders, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[1] == name {
			return true
		}
	}
	return false
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "\n"); idx > 0 {
		s = s[:idx]
	}
	return s
}
