// Package naming derives output paths for compressed files and keeps them
// unique across both existing files on disk and jobs still in flight.
package naming

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// CompressedName returns the default output path for an input: the input's
// stem plus the preset name and a "_compressed.mp4" suffix, in outDir
// (or beside the input when outDir is empty).
func CompressedName(input, presetName, outDir string) string {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	name := fmt.Sprintf("%s_%s_compressed.mp4", stem, presetName)
	if outDir == "" {
		outDir = filepath.Dir(input)
	}
	return filepath.Join(outDir, name)
}

// Resolver hands out unique output paths. A path is taken when it exists on
// disk or has already been claimed by an earlier job this run; taken paths
// get "_1", "_2", ... suffixes before the extension. Goroutine-safe.
type Resolver struct {
	mu      sync.Mutex
	claimed map[string]bool
}

// NewResolver creates a ready-to-use resolver.
func NewResolver() *Resolver {
	return &Resolver{claimed: make(map[string]bool)}
}

// Unique claims and returns the first free variant of path.
func (r *Resolver) Unique(path string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.taken(path) {
		r.claimed[path] = true
		return path
	}

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for counter := 1; ; counter++ {
		candidate := fmt.Sprintf("%s_%d%s", base, counter, ext)
		if !r.taken(candidate) {
			r.claimed[candidate] = true
			return candidate
		}
	}
}

func (r *Resolver) taken(path string) bool {
	if r.claimed[path] {
		return true
	}
	_, err := os.Stat(path)
	return err == nil
}

// FileSizeMB returns the size of the file at path in megabytes.
func FileSizeMB(path string) (float64, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return float64(fi.Size()) / (1024 * 1024), nil
}
