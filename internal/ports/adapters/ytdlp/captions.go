package ytdlp

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/S4M1D4R3/YouTubeLiveClipper/internal/types"
)

// json3 is YouTube's native timed-caption JSON: a flat list of events, each
// holding a start offset in milliseconds and utf8 text segments.
type json3Doc struct {
	Events []json3Event `json:"events"`
}

type json3Event struct {
	TStartMs int64      `json:"tStartMs"`
	Segs     []json3Seg `json:"segs"`
}

type json3Seg struct {
	UTF8 string `json:"utf8"`
}

func parseJSON3(b []byte) ([]types.CaptionItem, error) {
	var doc json3Doc
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse json3 captions: %w", err)
	}
	var out []types.CaptionItem
	for _, ev := range doc.Events {
		var sb strings.Builder
		for _, seg := range ev.Segs {
			sb.WriteString(seg.UTF8)
		}
		text := strings.TrimSpace(strings.ReplaceAll(sb.String(), "\n", " "))
		if text == "" {
			continue
		}
		out = append(out, types.CaptionItem{
			Start: float64(ev.TStartMs) / 1000,
			Text:  text,
		})
	}
	return out, nil
}

var vttCueRe = regexp.MustCompile(`^(\d{2,}):(\d{2}):(\d{2})\.(\d{3})\s+-->\s+\d`)

// parseVTT reads WebVTT cues: a timestamp line followed by text lines up to
// the next blank line. Styling tags are left in place; the transcript
// normalizer strips them along with everything else.
func parseVTT(b []byte) ([]types.CaptionItem, error) {
	var out []types.CaptionItem
	scanner := bufio.NewScanner(bytes.NewReader(b))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		m := vttCueRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		h, _ := strconv.Atoi(m[1])
		mi, _ := strconv.Atoi(m[2])
		s, _ := strconv.Atoi(m[3])
		ms, _ := strconv.Atoi(m[4])
		start := float64(h*3600+mi*60+s) + float64(ms)/1000

		var texts []string
		for scanner.Scan() {
			text := strings.TrimSpace(scanner.Text())
			if text == "" {
				break
			}
			texts = append(texts, text)
		}
		if len(texts) == 0 {
			continue
		}
		out = append(out, types.CaptionItem{
			Start: start,
			Text:  strings.Join(texts, " "),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan vtt captions: %w", err)
	}
	return out, nil
}
