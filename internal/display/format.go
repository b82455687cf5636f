// Package display holds human-readable formatting helpers for CLI output.
package display

import (
	"fmt"
	"io"
	"text/tabwriter"

	"vidsqueeze/internal/preset"
)

// FormatBytes returns a human-readable size (B, KiB, MiB, GiB, TiB, PiB).
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	suffixes := []string{"KiB", "MiB", "GiB", "TiB", "PiB", "EiB"}
	if exp >= len(suffixes) {
		exp = len(suffixes) - 1
		div = 1
		for i := 0; i <= exp; i++ {
			div *= unit
		}
	}
	return fmt.Sprintf("%.1f %s", float64(bytes)/float64(div), suffixes[exp])
}

// FormatMB renders a size in megabytes with one decimal (e.g. "12.4 MB").
func FormatMB(mb float64) string {
	return fmt.Sprintf("%.1f MB", mb)
}

// FormatBitrateLabel returns a short label for bitrate in kbps (e.g. "1200 kbps").
func FormatBitrateLabel(kbps int64) string {
	if kbps < 1000 {
		return fmt.Sprintf("%d kbps", kbps)
	}
	return fmt.Sprintf("%.1f Mbps", float64(kbps)/1000)
}

// SavingsPercent returns how much smaller the output is than the input, in
// percent. Zero input yields zero rather than a division error.
func SavingsPercent(inputMB, outputMB float64) float64 {
	if inputMB <= 0 {
		return 0
	}
	return (1 - outputMB/inputMB) * 100
}

// WritePresetTable renders the preset table for --list-presets.
func WritePresetTable(w io.Writer) {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PRESET\tMAX HEIGHT\tBITRATE MULT\tCRF\tSPEED")
	for _, name := range preset.Names() {
		p, _ := preset.Lookup(name)
		fmt.Fprintf(tw, "%s\t%dp\t%.2f\t%d\t%s\n", p.Name, p.MaxHeight, p.VideoKbpsMult, p.CRF, p.Speed)
	}
	tw.Flush()
}
