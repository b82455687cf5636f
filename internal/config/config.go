// Package config holds runtime configuration: defaults, environment
// overrides, CLI flag parsing, and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"vidsqueeze/internal/preset"
)

// ErrInvalidTargetSize is returned when --target-mb is not a positive whole
// number of megabytes. It is detected at parse time, before any job is queued.
var ErrInvalidTargetSize = errors.New("invalid target size")

// Config holds all runtime settings. It is populated by [DefaultConfig],
// overridden from the environment by [LoadEnv], and then mutated by
// [ParseFlags] before being passed (by pointer) to packages that need it.
type Config struct {
	// Inputs are positional args: local file paths or http(s) URLs.
	Inputs []string

	// Encoding settings.
	Preset   string // Default: "medium".
	TargetMB *int   // nil means quality mode; set means target-size mode.

	// Concurrency.
	Workers int // Default: 2. Clamped by the pool at start.

	// Paths.
	OutDir      string // Empty means next to each input file.
	FFmpegPath  string // Default: "ffmpeg" (resolved via PATH).
	FFprobePath string // Default: "ffprobe".
	YtDlpPath   string // Default: "yt-dlp".

	// Modes and display.
	CheckOnly   bool
	ListPresets bool
	JSONLogs    bool
	Verbose     bool

	// rawTargetMB carries the --target-mb flag text until Validate parses it.
	rawTargetMB string
}

// DefaultConfig returns a Config with the built-in defaults. Used as the base
// before [LoadEnv] and [ParseFlags] apply overrides.
func DefaultConfig() Config {
	return Config{
		Preset:      "medium",
		Workers:     2,
		FFmpegPath:  "ffmpeg",
		FFprobePath: "ffprobe",
		YtDlpPath:   "yt-dlp",
	}
}

// LoadEnv applies VIDSQUEEZE_* environment overrides to cfg. A .env file in
// the working directory is loaded first when present; real environment
// variables win over the file.
func LoadEnv(cfg *Config) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	if v := os.Getenv("VIDSQUEEZE_WORKERS"); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("VIDSQUEEZE_WORKERS must be a whole number (got %q)", v)
		}
		cfg.Workers = n
	}
	if v := os.Getenv("VIDSQUEEZE_FFMPEG"); v != "" {
		cfg.FFmpegPath = v
	}
	if v := os.Getenv("VIDSQUEEZE_FFPROBE"); v != "" {
		cfg.FFprobePath = v
	}
	if v := os.Getenv("VIDSQUEEZE_YTDLP"); v != "" {
		cfg.YtDlpPath = v
	}
	if v := os.Getenv("VIDSQUEEZE_OUT_DIR"); v != "" {
		cfg.OutDir = NormalizeDirArg(v)
	}
	return nil
}

// NormalizeDirArg strips trailing slashes from a directory path. The
// filesystem root "/" is returned unchanged so we don't produce an empty
// string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks the preset name, parses --target-mb, and requires at least
// one input unless a utility mode (--check, --list-presets) was selected.
func (c *Config) Validate() error {
	if _, err := preset.Lookup(c.Preset); err != nil {
		return fmt.Errorf("%w (use one of: %s)", err, strings.Join(preset.Names(), ", "))
	}

	if c.rawTargetMB != "" {
		n, err := strconv.Atoi(strings.TrimSpace(c.rawTargetMB))
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: %q (use a positive whole number of MB)", ErrInvalidTargetSize, c.rawTargetMB)
		}
		c.TargetMB = &n
	}

	if c.CheckOnly || c.ListPresets {
		return nil
	}
	if len(c.Inputs) == 0 {
		return errors.New("need at least one input file or URL")
	}
	return nil
}
