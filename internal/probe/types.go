package probe

// FormatInfo holds container-level metadata from ffprobe's format section.
type FormatInfo struct {
	Filename   string
	FormatName string
	Duration   float64 // Seconds.
	Size       int64   // Bytes.
	BitRate    int64   // Bits/sec, overall.
}

// VideoStream holds the parsed properties of a single video stream.
type VideoStream struct {
	Index   int
	Codec   string
	Width   int
	Height  int
	BitRate int64 // Bits/sec; 0 when ffprobe does not report it.
}

// AudioStream holds the parsed properties of a single audio stream.
type AudioStream struct {
	Index    int
	Codec    string
	Channels int
}

// Result is the fully parsed output of a single ffprobe JSON call.
// PrimaryVideo is the first non-attached-pic video stream (nil if none).
type Result struct {
	Format       FormatInfo
	PrimaryVideo *VideoStream
	AudioStreams []AudioStream
}

// SourceInfo is the per-job source metadata the planner consumes. It is
// derived once per job and immutable thereafter.
type SourceInfo struct {
	Width           int
	Height          int
	DurationSeconds float64
	BitrateKbps     int // Overall source bitrate; 0 when unknown.
	SizeMB          float64
}

// HasVideo reports whether a usable video stream was found.
func (r *Result) HasVideo() bool { return r.PrimaryVideo != nil }

// HasAudio reports whether the file contains at least one audio stream.
func (r *Result) HasAudio() bool { return len(r.AudioStreams) > 0 }

// Source derives the planner's SourceInfo view of this result. BitrateKbps
// is the overall container bitrate, not the per-stream value; planning
// arithmetic budgets against the whole file. Callers must check HasVideo
// first; Source on a video-less result yields zero dimensions.
func (r *Result) Source() SourceInfo {
	src := SourceInfo{
		DurationSeconds: r.Format.Duration,
		BitrateKbps:     int(r.Format.BitRate / 1000),
		SizeMB:          float64(r.Format.Size) / (1024 * 1024),
	}
	if r.PrimaryVideo != nil {
		src.Width = r.PrimaryVideo.Width
		src.Height = r.PrimaryVideo.Height
	}
	return src
}
