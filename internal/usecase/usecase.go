package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/S4M1D4R3/YouTubeLiveClipper/internal/domain/prompt"
	"github.com/S4M1D4R3/YouTubeLiveClipper/internal/domain/segments"
	"github.com/S4M1D4R3/YouTubeLiveClipper/internal/domain/transcript"
	"github.com/S4M1D4R3/YouTubeLiveClipper/internal/domain/videoid"
	"github.com/S4M1D4R3/YouTubeLiveClipper/internal/ports"
	"github.com/S4M1D4R3/YouTubeLiveClipper/internal/types"
)

const (
	taskSubtitles = "subtitles"
	taskVideo     = "video"

	subtitleSuffix = "_subtitles.txt"
)

type Deps struct {
	Transcripts ports.TranscriptFetcher
	Captions    ports.CaptionSource
	Meta        ports.Metadata
	Downloader  ports.VideoDownloader
	Cutter      ports.VideoCutter
	Progress    ports.Progress
	Logf        func(format string, args ...any)
}

type Options struct {
	// DownloadsDir holds every persisted artifact: the transcript, clip
	// files, excerpt files and the transient shared download.
	DownloadsDir string
	// Languages is the acquisition priority list.
	Languages []string
	// PromptTemplate optionally overrides the built-in instruction
	// template; it must carry two %s verbs (title, transcript).
	PromptTemplate string
}

type Usecase struct {
	d   Deps
	opt Options
}

func New(d Deps, opt Options) Usecase {
	if d.Logf == nil {
		d.Logf = func(string, ...any) {}
	}
	if d.Progress == nil {
		d.Progress = nopProgress{}
	}
	if opt.DownloadsDir == "" {
		opt.DownloadsDir = "downloads"
	}
	if len(opt.Languages) == 0 {
		opt.Languages = defaultLanguages()
	}
	return Usecase{d: d, opt: opt}
}

func defaultLanguages() []string { return []string{"ja", "ja-JP", "en"} }

type nopProgress struct{}

func (nopProgress) Report(string, int) {}

// TranscriptResult is what the subtitle phase hands back to the caller:
// the normalized lines, the (possibly synthetic) title and the path of the
// persisted transcript for later reuse by ExtractClips.
type TranscriptResult struct {
	Lines        []types.TimedLine
	Title        string
	SubtitlePath string
}

// AcquireTranscript fetches subtitles for a video, normalizes them and
// persists the transcript under the downloads directory.
func (u Usecase) AcquireTranscript(ctx context.Context, videoURL string) (TranscriptResult, error) {
	u.d.Progress.Report(taskSubtitles, 0)

	id, err := videoid.FromURL(videoURL)
	if err != nil {
		return TranscriptResult{}, err
	}

	title := u.videoTitle(ctx, id)
	u.d.Progress.Report(taskSubtitles, 20)

	items, err := u.resolveCaptions(ctx, id)
	u.d.Progress.Report(taskSubtitles, 40)
	if err != nil {
		return TranscriptResult{}, err
	}

	lines, err := transcript.Normalize(items)
	if err != nil {
		return TranscriptResult{}, err
	}
	u.d.Progress.Report(taskSubtitles, 80)

	if err := os.MkdirAll(u.opt.DownloadsDir, 0o755); err != nil {
		return TranscriptResult{}, err
	}
	path := filepath.Join(u.opt.DownloadsDir, sanitizeTitle(title)+subtitleSuffix)
	if err := os.WriteFile(path, []byte(transcript.Render(lines)), 0o644); err != nil {
		return TranscriptResult{}, fmt.Errorf("write subtitles: %w", err)
	}
	u.d.Logf("subtitles saved: %s (%d lines)", path, len(lines))
	u.d.Progress.Report(taskSubtitles, 100)

	return TranscriptResult{Lines: lines, Title: title, SubtitlePath: path}, nil
}

// BuildPrompt renders the instruction text for the external model call.
func (u Usecase) BuildPrompt(lines []types.TimedLine, title string) string {
	if u.opt.PromptTemplate != "" {
		return prompt.BuildWith(u.opt.PromptTemplate, lines, title)
	}
	return prompt.Build(lines, title)
}

// ExtractClips validates the model reply against the persisted transcript,
// downloads the shared source once and cuts every surviving segment.
// A failed cut drops that one segment; the run keeps going.
func (u Usecase) ExtractClips(ctx context.Context, modelReply, subtitlePath, videoURL string) ([]types.ClipResult, error) {
	u.d.Progress.Report(taskVideo, 0)

	id, err := videoid.FromURL(videoURL)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(subtitlePath)
	if err != nil {
		return nil, fmt.Errorf("read subtitles: %w", err)
	}
	lines := transcript.ParseLines(strings.Split(string(raw), "\n"))

	segs, err := segments.Normalize([]byte(modelReply), lines)
	if err != nil {
		return nil, err
	}
	u.d.Logf("validated %d segment(s)", len(segs))

	if err := os.MkdirAll(u.opt.DownloadsDir, 0o755); err != nil {
		return nil, err
	}
	shared := filepath.Join(u.opt.DownloadsDir, "temp_"+id+".mp4")
	// The shared source is reused across every cut of this run and removed
	// on every exit path, including a failed download.
	defer func() {
		if rmErr := os.Remove(shared); rmErr != nil && !os.IsNotExist(rmErr) {
			u.d.Logf("cleanup shared download: %v", rmErr)
		}
	}()

	if _, statErr := os.Stat(shared); os.IsNotExist(statErr) {
		u.d.Logf("downloading full video for %s", id)
		if err := u.d.Downloader.Download(ctx, id, shared); err != nil {
			return nil, fmt.Errorf("download video: %w", err)
		}
	}
	u.d.Progress.Report(taskVideo, 40)

	videoTitle := strings.TrimSuffix(filepath.Base(subtitlePath), subtitleSuffix)

	var results []types.ClipResult
	total := len(segs)
	for i, seg := range segs {
		u.d.Progress.Report(taskVideo, 40+50*(i+1)/total)

		base := fmt.Sprintf("clip_%s_%s_%s", id, underscored(seg.Start), underscored(seg.End))
		excerptPath := filepath.Join(u.opt.DownloadsDir, base+subtitleSuffix)
		clipPath := filepath.Join(u.opt.DownloadsDir, base+".mp4")

		if err := os.WriteFile(excerptPath, []byte(transcript.Render(seg.Lines)), 0o644); err != nil {
			u.d.Logf("segment %d: write excerpt: %v", i+1, err)
			continue
		}
		u.d.Logf("cutting %s - %s", seg.Start, seg.End)
		if err := u.d.Cutter.Cut(ctx, shared, seg.StartSec, seg.Duration, clipPath); err != nil {
			u.d.Logf("segment %d: %v", i+1, err)
			continue
		}

		results = append(results, types.ClipResult{
			StartTime:     seg.Start,
			EndTime:       seg.End,
			VideoTitle:    videoTitle,
			SubtitleFile:  excerptPath,
			VideoFile:     clipPath,
			Title:         seg.Title,
			Impact:        seg.Impact,
			Uniqueness:    seg.Uniqueness,
			Timeliness:    seg.Timeliness,
			Entertainment: seg.Entertainment,
			Reason:        seg.Reason,
		})
	}

	if len(results) == 0 {
		return nil, segments.ErrNoValidSegments
	}
	u.d.Progress.Report(taskVideo, 100)
	return results, nil
}

// videoTitle is best-effort: any metadata failure falls back to a
// synthetic title and never aborts the subtitle flow.
func (u Usecase) videoTitle(ctx context.Context, videoID string) string {
	title, err := u.d.Meta.Title(ctx, videoID)
	if err != nil {
		u.d.Logf("video title lookup: %v", err)
		return "video_" + videoID
	}
	if title = strings.TrimSpace(title); title == "" {
		return "video_" + videoID
	}
	return title
}

// sanitizeTitle replaces characters that are unsafe in filenames.
func sanitizeTitle(title string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
			return '_'
		}
		return r
	}, title)
}

func underscored(timecode string) string {
	return strings.ReplaceAll(timecode, ":", "_")
}
