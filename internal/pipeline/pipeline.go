package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/S4M1D4R3/YouTubeLiveClipper/internal/domain/prompt"
	"github.com/S4M1D4R3/YouTubeLiveClipper/internal/ports"
	"github.com/S4M1D4R3/YouTubeLiveClipper/internal/ports/adapters/ffmpeg"
	"github.com/S4M1D4R3/YouTubeLiveClipper/internal/ports/adapters/ytapi"
	"github.com/S4M1D4R3/YouTubeLiveClipper/internal/ports/adapters/ytdlp"
	"github.com/S4M1D4R3/YouTubeLiveClipper/internal/types"
	"github.com/S4M1D4R3/YouTubeLiveClipper/internal/usecase"
)

// Config wires external tools and run options into a Service.
type Config struct {
	DownloadsDir string
	Languages    []string
	YtDlpPath    string
	FFmpegPath   string
	// PromptTemplatePath optionally points at a YAML template file that
	// replaces the built-in instruction text.
	PromptTemplatePath string

	Logf     func(format string, args ...any)
	Progress ports.Progress
}

func (c Config) Validate() error {
	if c.PromptTemplatePath != "" {
		if _, err := os.Stat(c.PromptTemplatePath); err != nil {
			return fmt.Errorf("prompt template: %w", err)
		}
	}
	return nil
}

// Service exposes the full flow: acquire subtitles, build the model
// prompt, and turn a model reply into cut clips.
type Service struct {
	u usecase.Usecase
}

func New(cfg Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return Service{}, err
	}

	var template string
	if cfg.PromptTemplatePath != "" {
		loaded, err := prompt.LoadTemplate(cfg.PromptTemplatePath)
		if err != nil {
			return Service{}, err
		}
		template = loaded
	}

	dlp := ytdlp.New(cfg.YtDlpPath)
	u := usecase.New(usecase.Deps{
		Transcripts: ytapi.New(),
		Captions:    dlp,
		Meta:        dlp,
		Downloader:  dlp,
		Cutter:      ffmpeg.New(cfg.FFmpegPath),
		Progress:    cfg.Progress,
		Logf:        cfg.Logf,
	}, usecase.Options{
		DownloadsDir:   cfg.DownloadsDir,
		Languages:      cfg.Languages,
		PromptTemplate: template,
	})
	return Service{u: u}, nil
}

func (s Service) AcquireTranscript(ctx context.Context, videoURL string) (usecase.TranscriptResult, error) {
	return s.u.AcquireTranscript(ctx, videoURL)
}

func (s Service) BuildPrompt(lines []types.TimedLine, title string) string {
	return s.u.BuildPrompt(lines, title)
}

func (s Service) ExtractClips(ctx context.Context, modelReply, subtitlePath, videoURL string) ([]types.ClipResult, error) {
	return s.u.ExtractClips(ctx, modelReply, subtitlePath, videoURL)
}

// LogfProgress reports task progress through a printf-style logger.
type LogfProgress struct {
	Logf func(format string, args ...any)
}

func (p LogfProgress) Report(task string, percent int) {
	if p.Logf != nil {
		p.Logf("%s: %d%%", task, percent)
	}
}

var (
	_ ports.TranscriptFetcher = (*ytapi.Adapter)(nil)
	_ ports.CaptionSource     = (*ytdlp.Adapter)(nil)
	_ ports.Metadata          = (*ytdlp.Adapter)(nil)
	_ ports.VideoDownloader   = (*ytdlp.Adapter)(nil)
	_ ports.VideoCutter       = (*ffmpeg.Adapter)(nil)
	_ ports.Progress          = LogfProgress{}
)
