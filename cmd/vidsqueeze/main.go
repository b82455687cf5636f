// Command vidsqueeze is the CLI entrypoint for the batch video compressor.
//
// It parses flags, validates configuration, and either runs system
// diagnostics (--check) or queues every input onto the worker pool and waits
// for all jobs to finish.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"vidsqueeze/internal/check"
	"vidsqueeze/internal/compress"
	"vidsqueeze/internal/config"
	"vidsqueeze/internal/display"
	"vidsqueeze/internal/downloader"
	"vidsqueeze/internal/jobs"
	"vidsqueeze/internal/logging"
	"vidsqueeze/internal/naming"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap. The logger doesn't exist yet, so errors go
	// directly to stderr via fmt.
	cfg := config.DefaultConfig()
	if err := config.LoadEnv(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "vidsqueeze: %v\n", err)
		return 1
	}
	if err := config.ParseFlags(&cfg, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "vidsqueeze: %v\n", err)
		return 1
	}

	log := logging.NewStderr(logging.Options{Verbose: cfg.Verbose, JSON: cfg.JSONLogs})

	if cfg.ListPresets {
		display.WritePresetTable(os.Stdout)
		return 0
	}
	if cfg.CheckOnly {
		check.RunCheck(&cfg, log)
		return 0
	}

	// Fail fast if the external tools are unavailable. yt-dlp is required
	// only when a URL input needs downloading.
	needDownloader := false
	for _, in := range cfg.Inputs {
		if downloader.IsURL(in) {
			needDownloader = true
			break
		}
	}
	if err := check.CheckDeps(&cfg, needDownloader); err != nil {
		log.Error().Err(err).Msg("dependency check failed")
		return 1
	}

	if cfg.OutDir != "" {
		if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
			log.Error().Str("dir", cfg.OutDir).Err(err).Msg("cannot create output directory")
			return 1
		}
	}

	// Phase 2: Signal handling. Cancel the context on SIGINT/SIGTERM so
	// idle workers exit; jobs already running finish their current file.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn().Msg("interrupt received, finishing running jobs")
		cancel()
	}()

	// Phase 3: Start the pool and queue every input.
	compressor := compress.New(cfg.FFmpegPath, cfg.FFprobePath, log)
	process := func(ctx context.Context, job *jobs.Job) (float64, error) {
		return compressor.Compress(ctx, job.InputPath, job.OutputPath, job.Preset, job.TargetMB)
	}
	pool := jobs.NewPool(cfg.Workers, process, &logNotifier{log: log}, log)
	pool.Start(ctx)

	resolver := naming.NewResolver()
	dl := downloader.New(cfg.YtDlpPath)
	downloadFailures := 0

	for _, input := range cfg.Inputs {
		local := input
		if downloader.IsURL(input) {
			log.Info().Str("url", input).Msg("downloading")
			path, err := dl.Download(ctx, input, downloadDir(&cfg))
			if err != nil {
				log.Error().Str("url", input).Err(err).Msg("download failed")
				downloadFailures++
				continue
			}
			log.Info().Str("file", path).Msg("downloaded")
			local = path
		}
		output := resolver.Unique(naming.CompressedName(local, cfg.Preset, cfg.OutDir))
		job := jobs.New(local, output, cfg.Preset, cfg.TargetMB)
		log.Info().Str("job_id", job.ID).Str("input", local).Str("output", output).Msg("queued")
		pool.Submit(job)
	}

	// Phase 4: Drain and summarize.
	pool.Close()
	pool.Wait()

	succeeded, failed := pool.Counts()
	failed += downloadFailures
	log.Info().Int("succeeded", succeeded).Int("failed", failed).Msg("done")

	if failed > 0 {
		return 1
	}
	return 0
}

// downloadDir is where remote videos land before compression: the configured
// output directory, or the working directory when none was given.
func downloadDir(cfg *config.Config) string {
	if cfg.OutDir != "" {
		return cfg.OutDir
	}
	return "."
}

// logNotifier reports job lifecycle events as log lines.
type logNotifier struct {
	log zerolog.Logger
}

func (n *logNotifier) JobStarted(j *jobs.Job) {
	n.log.Info().Str("job_id", j.ID).Str("input", j.InputPath).Msg("compressing")
}

func (n *logNotifier) JobSucceeded(j *jobs.Job) {
	ev := n.log.Info().
		Str("job_id", j.ID).
		Str("output", j.OutputPath).
		Str("size", display.FormatMB(j.SizeMB)).
		Dur("elapsed", j.CompletedAt.Sub(j.StartedAt))
	if fi, err := os.Stat(j.InputPath); err == nil {
		inMB := float64(fi.Size()) / (1024 * 1024)
		ev = ev.
			Str("input_size", display.FormatBytes(fi.Size())).
			Str("saved", fmt.Sprintf("%.1f%%", display.SavingsPercent(inMB, j.SizeMB)))
	}
	ev.Msg("finished")
}

func (n *logNotifier) JobFailed(j *jobs.Job) {
	n.log.Error().
		Str("job_id", j.ID).
		Str("input", j.InputPath).
		Str("error", j.Error).
		Msg("failed")
}
