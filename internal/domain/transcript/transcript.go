// Package transcript turns raw caption entries from any acquisition source
// into the one persisted transcript format: ordered "[HH:MM:SS] text" lines.
package transcript

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/S4M1D4R3/YouTubeLiveClipper/internal/domain/timecode"
	"github.com/S4M1D4R3/YouTubeLiveClipper/internal/types"
)

// ErrNoContent reports a source that produced captions but no usable text.
var ErrNoContent = errors.New("no subtitle content extracted")

var (
	tagRe        = regexp.MustCompile(`<[^>]+>`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	lineRe       = regexp.MustCompile(`^\[(\d{2,}):(\d{2}):(\d{2})\](.*)`)
)

// Clean strips markup and zero-width characters and collapses whitespace.
func Clean(text string) string {
	text = tagRe.ReplaceAllString(text, "")
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = strings.ReplaceAll(text, "\u200B", "")
	text = strings.ReplaceAll(text, "\uFEFF", "")
	return strings.TrimSpace(text)
}

// Normalize converts raw caption items into ordered timed lines.
// Consecutive items landing on the same truncated second are merged into
// one line, space-joined in input order; items whose text is empty after
// cleaning are dropped and never start or extend a merge group.
func Normalize(items []types.CaptionItem) ([]types.TimedLine, error) {
	var (
		out     []types.TimedLine
		pending []string
		current = -1
	)
	flush := func() {
		if current >= 0 && len(pending) > 0 {
			out = append(out, types.TimedLine{Seconds: current, Text: strings.Join(pending, " ")})
		}
		pending = nil
	}

	for _, item := range items {
		text := Clean(item.Text)
		if text == "" {
			continue
		}
		sec := int(item.Start)
		if sec < 0 {
			sec = 0
		}
		if sec != current {
			flush()
			current = sec
		}
		pending = append(pending, text)
	}
	flush()

	if len(out) == 0 {
		return nil, ErrNoContent
	}
	return out, nil
}

// Render produces the persisted transcript text, one "[HH:MM:SS] text"
// line per entry.
func Render(lines []types.TimedLine) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		parts = append(parts, timecode.Format(l.Seconds)+" "+l.Text)
	}
	return strings.Join(parts, "\n")
}

// ParseLines reads the persisted transcript format back. Lines that do not
// match the format are skipped rather than failing the whole file.
func ParseLines(raw []string) []types.TimedLine {
	var out []types.TimedLine
	for _, line := range raw {
		m := lineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		// Matched groups are all digits; Atoi cannot fail here. The hour
		// group is open-ended because Format never caps hours at 99.
		h, _ := strconv.Atoi(m[1])
		mi, _ := strconv.Atoi(m[2])
		s, _ := strconv.Atoi(m[3])
		out = append(out, types.TimedLine{Seconds: h*3600 + mi*60 + s, Text: strings.TrimSpace(m[4])})
	}
	return out
}

// Slice keeps the lines whose timestamp falls in [startSec, endSec]
// inclusive.
func Slice(lines []types.TimedLine, startSec, endSec int) []types.TimedLine {
	var out []types.TimedLine
	for _, l := range lines {
		if l.Seconds >= startSec && l.Seconds <= endSec {
			out = append(out, l)
		}
	}
	return out
}
