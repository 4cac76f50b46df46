package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/S4M1D4R3/YouTubeLiveClipper/internal/pipeline"
	"github.com/spf13/cobra"
)

func newService(cmd *cobra.Command) (pipeline.Service, error) {
	downloads, _ := cmd.Flags().GetString("downloads")
	langs, _ := cmd.Flags().GetStringSlice("langs")
	template, _ := cmd.Flags().GetString("template")

	logger := log.New(cmd.ErrOrStderr(), "", log.LstdFlags)
	cfg := pipeline.Config{
		DownloadsDir:       downloads,
		Languages:          langs,
		YtDlpPath:          getenvDefault("YTCLIPPER_YTDLP", "yt-dlp"),
		FFmpegPath:         getenvDefault("YTCLIPPER_FFMPEG", "ffmpeg"),
		PromptTemplatePath: template,
		Logf:               logger.Printf,
		Progress:           pipeline.LogfProgress{Logf: logger.Printf},
	}
	svc, err := pipeline.New(cfg)
	if err != nil {
		return pipeline.Service{}, fmt.Errorf("config: %w", err)
	}
	return svc, nil
}

func runPrompt(cmd *cobra.Command, videoURL string) error {
	svc, err := newService(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Hour)
	defer cancel()

	res, err := svc.AcquireTranscript(ctx, videoURL)
	if err != nil {
		return err
	}
	// The prompt goes to stdout so it can be piped straight into a model
	// client; everything else is on stderr.
	fmt.Fprintln(cmd.OutOrStdout(), svc.BuildPrompt(res.Lines, res.Title))
	return nil
}

func runExtract(cmd *cobra.Command, videoURL string) error {
	svc, err := newService(cmd)
	if err != nil {
		return err
	}

	subtitles, _ := cmd.Flags().GetString("subtitles")
	replyPath, _ := cmd.Flags().GetString("reply")

	var reply []byte
	if replyPath != "" {
		reply, err = os.ReadFile(replyPath)
	} else {
		reply, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return fmt.Errorf("read model reply: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 3*time.Hour)
	defer cancel()

	results, err := svc.ExtractClips(ctx, string(reply), subtitles, videoURL)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func getenvDefault(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
