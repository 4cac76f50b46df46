// Package ytdlp shells out to yt-dlp for caption-track discovery, video
// metadata and the one full-quality download per extraction run.
package ytdlp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"strings"
	"time"

	"github.com/S4M1D4R3/YouTubeLiveClipper/internal/types"
)

// downloadFormat asks for the best combined streams muxed into one mp4,
// mirroring what the web UI calls "highest quality".
const downloadFormat = "bestvideo[ext=mp4]+bestaudio[ext=m4a]/bestvideo+bestaudio/best"

type Adapter struct {
	bin    string
	client *http.Client
}

func New(bin string) *Adapter {
	if bin == "" {
		bin = "yt-dlp"
	}
	return &Adapter{
		bin:    bin,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func watchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// Title fetches the video's display title.
func (a *Adapter) Title(ctx context.Context, videoID string) (string, error) {
	cmd := exec.CommandContext(ctx, a.bin,
		"--quiet",
		"--no-warnings",
		"--print", "title",
		watchURL(videoID),
	)
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("yt-dlp title: %w", err)
	}
	title := strings.TrimSpace(string(out))
	if title == "" {
		return "", errors.New("yt-dlp returned an empty title")
	}
	return title, nil
}

// ListTracks dumps the video's info JSON and collects the caption tracks
// it advertises, keeping one preferred track per language.
func (a *Adapter) ListTracks(ctx context.Context, videoID string) (types.CaptionTracks, error) {
	cmd := exec.CommandContext(ctx, a.bin,
		"-J",
		"--skip-download",
		"--no-warnings",
		watchURL(videoID),
	)
	out, err := cmd.Output()
	if err != nil {
		return types.CaptionTracks{}, fmt.Errorf("yt-dlp info dump: %w", err)
	}
	return parseInfoTracks(out)
}

type trackInfo struct {
	Ext string `json:"ext"`
	URL string `json:"url"`
}

func parseInfoTracks(b []byte) (types.CaptionTracks, error) {
	var info struct {
		Subtitles         map[string][]trackInfo `json:"subtitles"`
		AutomaticCaptions map[string][]trackInfo `json:"automatic_captions"`
	}
	if err := json.Unmarshal(b, &info); err != nil {
		return types.CaptionTracks{}, fmt.Errorf("parse yt-dlp info: %w", err)
	}
	return types.CaptionTracks{
		Authored:  pickTracks(info.Subtitles),
		Automatic: pickTracks(info.AutomaticCaptions),
	}, nil
}

// pickTracks keeps the best decodable rendition per language: json3 first
// because it carries clean per-event offsets, vtt as fallback.
func pickTracks(all map[string][]trackInfo) map[string]types.CaptionTrack {
	out := make(map[string]types.CaptionTrack, len(all))
	for lang, tracks := range all {
		var best *trackInfo
		for i := range tracks {
			switch tracks[i].Ext {
			case "json3":
				best = &tracks[i]
			case "vtt":
				if best == nil {
					best = &tracks[i]
				}
			}
			if best != nil && best.Ext == "json3" {
				break
			}
		}
		if best != nil {
			out[lang] = types.CaptionTrack{Ext: best.Ext, URL: best.URL}
		}
	}
	return out
}

// FetchTrack downloads one caption track and decodes it into caption items.
func (a *Adapter) FetchTrack(ctx context.Context, track types.CaptionTrack) ([]types.CaptionItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, track.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("caption track request: %w", err)
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch caption track: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch caption track: status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read caption track: %w", err)
	}

	switch track.Ext {
	case "json3":
		return parseJSON3(body)
	case "vtt":
		return parseVTT(body)
	default:
		return nil, fmt.Errorf("unsupported caption format %q", track.Ext)
	}
}

// Download produces the shared full-quality source file for a video.
func (a *Adapter) Download(ctx context.Context, videoID, outPath string) error {
	cmd := exec.CommandContext(ctx, a.bin,
		"--quiet",
		"--no-warnings",
		"-f", downloadFormat,
		"--merge-output-format", "mp4",
		"-o", outPath,
		watchURL(videoID),
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("yt-dlp download: %w\n%s", err, string(b))
	}
	return nil
}
