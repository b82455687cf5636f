// Package ffmpeg builds and executes the external transcoder invocations for
// a compression job: a single CRF-style pass in quality mode, or the
// analysis+encode pass pair in target-size mode.
//
// Argument construction (builder.go) is deterministic and pure so commands
// can be asserted in tests; execution (executor.go) runs the blocking
// subprocess with stdout/stderr captured for diagnostics but never shown to
// the caller. Pass-statistics files from 2-pass runs live in a per-job
// temporary directory that is removed unconditionally, success or failure.
package ffmpeg
