package config

// This file implements CLI flag parsing and help text.

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"vidsqueeze/internal/preset"
)

// version is shown in --version and help; override at build time with
// -ldflags "-X vidsqueeze/internal/config.version=...".
var version = "1.0.0-dev"

// Version returns the build version string.
func Version() string { return version }

// ParseFlags parses args (typically os.Args[1:]) into cfg. On --help or
// --version it prints and exits. On error it returns non-nil (e.g. unknown
// flag, bad target size, missing inputs).
func ParseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("vidsqueeze", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs) }

	var showHelp, showVersion bool

	fs.Var(&presetValue{&cfg.Preset}, "preset", "Compression preset: "+strings.Join(preset.Names(), " | "))
	fs.Var(&presetValue{&cfg.Preset}, "p", "Same as --preset")
	fs.StringVar(&cfg.rawTargetMB, "target-mb", "", "Target output size in MB (enables two-pass mode)")
	fs.StringVar(&cfg.rawTargetMB, "t", "", "Same as --target-mb")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Concurrent compression jobs")
	fs.StringVar(&cfg.OutDir, "out-dir", cfg.OutDir, "Directory for outputs (default: next to each input)")
	fs.StringVar(&cfg.OutDir, "o", cfg.OutDir, "Same as --out-dir")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run dependency diagnostics and exit")
	fs.BoolVar(&cfg.CheckOnly, "c", false, "Same as --check")
	fs.BoolVar(&cfg.ListPresets, "list-presets", false, "List presets and exit")
	fs.BoolVar(&cfg.JSONLogs, "json", false, "Emit JSON log lines")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&showVersion, "V", false, "Same as --version")
	fs.BoolVar(&showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&showHelp, "h", false, "Same as --help")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if showHelp {
		printUsage(fs)
		os.Exit(0)
	}
	if showVersion {
		fmt.Fprintln(os.Stdout, "vidsqueeze v"+version)
		os.Exit(0)
	}

	cfg.Inputs = fs.Args()
	cfg.OutDir = NormalizeDirArg(cfg.OutDir)
	return cfg.Validate()
}

// printUsage writes the help text to stderr. Column-aligned for readability.
func printUsage(fs *flag.FlagSet) {
	const col1 = 28
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "vidsqueeze v" + version + " - batch video compressor"},
		{"", ""},
		{"  vidsqueeze [OPTIONS] <file-or-url> [<file-or-url>...]", ""},
		{"", ""},
		{"Encoding", ""},
		{"  -p, --preset <name>", "Compression preset: " + strings.Join(preset.Names(), " | ") + " (default: medium)"},
		{"  -t, --target-mb <n>", "Target output size in MB (two-pass; default: quality mode)"},
		{"", ""},
		{"Output & behavior", ""},
		{"  -o, --out-dir <path>", "Directory for outputs (default: next to each input)"},
		{"  --workers <n>", "Concurrent compression jobs (default: 2)"},
		{"", ""},
		{"Display", ""},
		{"  --json", "Emit JSON log lines"},
		{"  -v, --verbose", "Verbose output"},
		{"", ""},
		{"Utility", ""},
		{"  --list-presets", "List presets and exit"},
		{"  -c, --check", "Dependency diagnostics (ffmpeg, ffprobe, yt-dlp)"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(os.Stderr)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(os.Stderr, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(os.Stderr, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(os.Stderr, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}

// presetValue is a flag.Value adapter that rejects unknown preset names at
// parse time.
type presetValue struct{ p *string }

func (v *presetValue) String() string {
	if v.p == nil {
		return ""
	}
	return *v.p
}

func (v *presetValue) Set(s string) error {
	name := strings.ToLower(strings.TrimSpace(s))
	if _, err := preset.Lookup(name); err != nil {
		return fmt.Errorf("invalid preset %q (use %s)", s, strings.Join(preset.Names(), ", "))
	}
	*v.p = name
	return nil
}
