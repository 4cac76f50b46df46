package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
)

type Adapter struct {
	ffmpeg string
}

func New(ffmpegPath string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Adapter{ffmpeg: ffmpegPath}
}

// Cut trims one clip out of the shared source, re-encoding to fixed
// high-quality settings so every clip is playable regardless of the
// source codecs.
func (a *Adapter) Cut(ctx context.Context, inPath string, startSec, durationSec int, outPath string) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-i", inPath,
		"-ss", strconv.Itoa(startSec),
		"-t", strconv.Itoa(durationSec),
		"-c:v", "libx264",
		"-preset", "slow",
		"-crf", "18",
		"-c:a", "aac",
		"-b:a", "192k",
		"-avoid_negative_ts", "1",
		"-y",
		outPath,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg cut clip: %w\n%s", err, string(b))
	}
	return nil
}
