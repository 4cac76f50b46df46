// Package ytapi adapts the youtube-transcript-api client to the
// TranscriptFetcher port.
package ytapi

import (
	"context"
	"fmt"
	"strings"

	"github.com/horiagug/youtube-transcript-api-go/pkg/yt_transcript"

	"github.com/S4M1D4R3/YouTubeLiveClipper/internal/ports"
	"github.com/S4M1D4R3/YouTubeLiveClipper/internal/types"
)

type Adapter struct {
	client *yt_transcript.YtTranscriptClient
}

func New() *Adapter {
	return &Adapter{client: yt_transcript.NewClient()}
}

// Fetch returns the ordered caption items of the first transcript the API
// yields for the requested language.
func (a *Adapter) Fetch(ctx context.Context, videoID, lang string) ([]types.CaptionItem, error) {
	_ = ctx // the upstream client does not accept a context

	transcripts, err := a.client.GetTranscripts(videoID, []string{lang})
	if err != nil {
		return nil, classify(err)
	}
	for _, tr := range transcripts {
		if len(tr.Lines) == 0 {
			continue
		}
		items := make([]types.CaptionItem, 0, len(tr.Lines))
		for _, line := range tr.Lines {
			items = append(items, types.CaptionItem{Start: line.Start, Text: line.Text})
		}
		return items, nil
	}
	return nil, ports.ErrNoTranscript
}

// classify maps upstream error text onto the typed acquisition failures so
// the resolver can keep walking its language priority list.
func classify(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "disabled"):
		return fmt.Errorf("%w: %v", ports.ErrTranscriptsDisabled, err)
	case strings.Contains(msg, "no transcript"), strings.Contains(msg, "not found"):
		return fmt.Errorf("%w: %v", ports.ErrNoTranscript, err)
	default:
		return fmt.Errorf("transcript api: %w", err)
	}
}
