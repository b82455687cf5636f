// Package preset defines the fixed compression profiles and their lookup.
//
// A preset bundles an output-height cap, a bitrate multiplier applied to the
// source bitrate in quality mode, a CRF value, and an x264 speed/quality
// tradeoff. The set is fixed at three profiles:
//
//   - light:  up to 1080p, minimal compression (slow preset)
//   - medium: up to 720p, moderate compression (slow preset)
//   - strong: up to 480p, aggressive compression (medium preset)
package preset

import (
	"errors"
	"fmt"
)

// ErrUnknownPreset is returned by Lookup for names outside the fixed set.
var ErrUnknownPreset = errors.New("unknown preset")

// Config holds the parameters of one compression preset. Values are fixed;
// Config is copied by value and never mutated.
type Config struct {
	Name          string
	MaxHeight     int     // Output height cap; width follows the aspect ratio.
	VideoKbpsMult float64 // Applied to the source video bitrate in quality mode.
	CRF           int     // Constant rate factor for CRF-based encodes.
	Speed         string  // x264 speed/quality preset (e.g. "slow", "medium").
}

var presets = map[string]Config{
	"light":  {Name: "light", MaxHeight: 1080, VideoKbpsMult: 1.0, CRF: 20, Speed: "slow"},
	"medium": {Name: "medium", MaxHeight: 720, VideoKbpsMult: 0.75, CRF: 23, Speed: "slow"},
	"strong": {Name: "strong", MaxHeight: 480, VideoKbpsMult: 0.5, CRF: 28, Speed: "medium"},
}

// names fixes the listing order independently of map iteration.
var names = []string{"light", "medium", "strong"}

// Lookup returns the preset configuration for name, or an error wrapping
// ErrUnknownPreset listing the valid names.
func Lookup(name string) (Config, error) {
	p, ok := presets[name]
	if !ok {
		return Config{}, fmt.Errorf("%w: %q (available: %v)", ErrUnknownPreset, name, names)
	}
	return p, nil
}

// Names returns the known preset names in their fixed order.
func Names() []string {
	out := make([]string, len(names))
	copy(out, names)
	return out
}
