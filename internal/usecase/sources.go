package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/S4M1D4R3/YouTubeLiveClipper/internal/ports"
	"github.com/S4M1D4R3/YouTubeLiveClipper/internal/types"
)

// resolveCaptions walks the language priority list through two strategies:
// the transcript API first, then listed caption tracks (authored before
// automatic). Failures per language are collected so the final error names
// everything that was tried.
func (u Usecase) resolveCaptions(ctx context.Context, videoID string) ([]types.CaptionItem, error) {
	var diags []string

	for _, lang := range u.opt.Languages {
		items, err := u.d.Transcripts.Fetch(ctx, videoID, lang)
		if err == nil && len(items) > 0 {
			u.d.Logf("transcript api: %s (%d items)", lang, len(items))
			return items, nil
		}
		if err == nil {
			err = ports.ErrNoTranscript
		}
		diags = append(diags, fmt.Sprintf("%s: %v", lang, err))
		if errors.Is(err, ports.ErrTranscriptsDisabled) {
			// Disabled applies to the whole video, not one language.
			break
		}
	}

	tracks, err := u.d.Captions.ListTracks(ctx, videoID)
	if err != nil {
		diags = append(diags, fmt.Sprintf("track listing: %v", err))
	} else {
		for _, lang := range u.opt.Languages {
			for _, pool := range []map[string]types.CaptionTrack{tracks.Authored, tracks.Automatic} {
				track, ok := pool[lang]
				if !ok {
					continue
				}
				items, err := u.d.Captions.FetchTrack(ctx, track)
				if err != nil {
					diags = append(diags, fmt.Sprintf("%s track: %v", lang, err))
					continue
				}
				if len(items) > 0 {
					u.d.Logf("caption track: %s (%d items)", lang, len(items))
					return items, nil
				}
			}
		}
	}

	return nil, errors.New("failed to fetch subtitles: " + strings.Join(diags, "; "))
}
