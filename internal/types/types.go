package types

// CaptionItem is one raw caption entry as delivered by an acquisition
// source: a start offset (possibly fractional seconds) and uncleaned text.
type CaptionItem struct {
	Start float64
	Text  string
}

// TimedLine is one cleaned transcript line pinned to a whole second.
// Text is free of markup and collapsed whitespace.
type TimedLine struct {
	Seconds int
	Text    string
}

// CaptionTrack is one downloadable caption rendition advertised by the
// extractor for a single language.
type CaptionTrack struct {
	Ext string
	URL string
}

// CaptionTracks maps language code to the best available track, split by
// whether the track was authored by the uploader or machine generated.
type CaptionTracks struct {
	Authored  map[string]CaptionTrack
	Automatic map[string]CaptionTrack
}

// Segment is a validated, normalized clip selection recovered from the
// model reply. Every field is well formed; candidates that cannot reach
// this shape are dropped during normalization.
type Segment struct {
	Title         string
	Start         string // canonical HH:MM:SS
	End           string // canonical HH:MM:SS
	StartSec      int
	EndSec        int
	Duration      int
	Impact        int
	Uniqueness    int
	Timeliness    int
	Entertainment int
	Reason        string

	// Lines is the transcript excerpt whose timestamps fall inside
	// [StartSec, EndSec] inclusive.
	Lines []TimedLine
}

// ClipResult describes one clip the extraction run actually produced.
type ClipResult struct {
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	VideoTitle    string `json:"video_title"`
	SubtitleFile  string `json:"subtitle_file"`
	VideoFile     string `json:"video_file"`
	Title         string `json:"title"`
	Impact        int    `json:"impact"`
	Uniqueness    int    `json:"uniqueness"`
	Timeliness    int    `json:"timeliness"`
	Entertainment int    `json:"entertainment"`
	Reason        string `json:"reason"`
}
