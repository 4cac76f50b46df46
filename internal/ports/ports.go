package ports

import (
	"context"
	"errors"

	"github.com/S4M1D4R3/YouTubeLiveClipper/internal/types"
)

// Typed acquisition failures let the resolver treat "try the next
// language" differently from infrastructure errors.
var (
	ErrNoTranscript        = errors.New("no transcript found")
	ErrTranscriptsDisabled = errors.New("transcripts are disabled")
)

// TranscriptFetcher is the transcript-API style acquisition source.
type TranscriptFetcher interface {
	Fetch(ctx context.Context, videoID, lang string) ([]types.CaptionItem, error)
}

// CaptionSource is the caption-extraction acquisition source: it lists the
// tracks a video advertises and downloads one into caption items.
type CaptionSource interface {
	ListTracks(ctx context.Context, videoID string) (types.CaptionTracks, error)
	FetchTrack(ctx context.Context, track types.CaptionTrack) ([]types.CaptionItem, error)
}

// Metadata resolves a human-readable video title. Best-effort only.
type Metadata interface {
	Title(ctx context.Context, videoID string) (string, error)
}

// VideoDownloader produces the one shared full-quality source file for an
// extraction run.
type VideoDownloader interface {
	Download(ctx context.Context, videoID, outPath string) error
}

// VideoCutter trims and re-encodes one clip out of the shared source.
type VideoCutter interface {
	Cut(ctx context.Context, inPath string, startSec, durationSec int, outPath string) error
}

// Progress receives advisory completion percentages. Implementations must
// not block.
type Progress interface {
	Report(task string, percent int)
}
