// Package segments repairs the model's free-form JSON reply into validated
// clip selections. Each candidate is judged on its own: a malformed element
// is dropped, never allowed to abort the batch.
package segments

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/S4M1D4R3/YouTubeLiveClipper/internal/domain/timecode"
	"github.com/S4M1D4R3/YouTubeLiveClipper/internal/domain/transcript"
	"github.com/S4M1D4R3/YouTubeLiveClipper/internal/types"
)

var (
	// ErrInvalidSegments reports a reply that decoded but is not a
	// non-empty array of candidates.
	ErrInvalidSegments = errors.New("invalid segments data")
	// ErrNoValidSegments reports that not a single candidate survived
	// normalization (or, later, cutting).
	ErrNoValidSegments = errors.New("no valid segments found")
)

// fallbackReason replaces reasons too short to be useful.
const fallbackReason = "The reason for this selection was not sufficiently explained."

const (
	defaultScore = 5
	minScore     = 1
	maxScore     = 10
	minReasonLen = 10
)

var requiredFields = []string{"start", "end", "impact", "uniqueness", "timeliness", "entertainment", "reason"}

// Normalize parses the raw model reply against the persisted transcript
// lines and returns every candidate that could be repaired into a valid
// segment, in reply order.
func Normalize(raw []byte, lines []types.TimedLine) ([]types.Segment, error) {
	var cands []map[string]any
	if err := json.Unmarshal(raw, &cands); err != nil {
		return nil, fmt.Errorf("parse model reply: %w", err)
	}
	if len(cands) == 0 {
		return nil, ErrInvalidSegments
	}

	var out []types.Segment
	for _, cand := range cands {
		seg, ok := normalizeOne(cand, lines, len(out)+1)
		if !ok {
			continue
		}
		out = append(out, seg)
	}
	if len(out) == 0 {
		return nil, ErrNoValidSegments
	}
	return out, nil
}

func normalizeOne(cand map[string]any, lines []types.TimedLine, n int) (types.Segment, bool) {
	for _, f := range requiredFields {
		if _, ok := cand[f]; !ok {
			return types.Segment{}, false
		}
	}

	start, ok := timeField(cand["start"])
	if !ok {
		return types.Segment{}, false
	}
	end, ok := timeField(cand["end"])
	if !ok {
		return types.Segment{}, false
	}
	startSec, _ := timecode.Parse(start)
	endSec, _ := timecode.Parse(end)
	if endSec <= startSec {
		return types.Segment{}, false
	}

	reason := strings.TrimSpace(stringField(cand["reason"]))
	if utf8.RuneCountInString(reason) < minReasonLen {
		reason = fallbackReason
	}

	title := fmt.Sprintf("clip %d", n)
	if v, ok := cand["title"]; ok {
		title = stringField(v)
	}

	return types.Segment{
		Title:         title,
		Start:         timecode.Canonical(startSec),
		End:           timecode.Canonical(endSec),
		StartSec:      startSec,
		EndSec:        endSec,
		Duration:      endSec - startSec,
		Impact:        scoreField(cand["impact"]),
		Uniqueness:    scoreField(cand["uniqueness"]),
		Timeliness:    scoreField(cand["timeliness"]),
		Entertainment: scoreField(cand["entertainment"]),
		Reason:        reason,
		Lines:         transcript.Slice(lines, startSec, endSec),
	}, true
}

// timeField accepts only string timecodes that the flexible parser
// understands, re-rendered in canonical form by the caller.
func timeField(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	if _, err := timecode.Parse(s); err != nil {
		return "", false
	}
	return strings.TrimSpace(s), true
}

// scoreField coerces a score of any JSON type: numbers are clamped into
// [1,10] and rounded, anything uncoercible becomes the neutral 5.
func scoreField(v any) int {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case string:
		// ParseFloat accepts "NaN", which would ride through Min/Max
		// un-clamped; treat it as uncoercible like any other junk string.
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil || math.IsNaN(parsed) {
			return defaultScore
		}
		f = parsed
	case bool:
		return defaultScore
	case nil:
		return defaultScore
	default:
		return defaultScore
	}
	f = math.Min(math.Max(f, minScore), maxScore)
	return int(math.Round(f))
}

func stringField(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
