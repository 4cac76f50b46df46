package timecode

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// flexible covers the wall-clock shapes the model is known to emit:
// "H:MM:SS", "HH:MM:SS" and the fully concatenated "HHMMSS". Hours above
// 99 only exist in the colon-separated form, where longHours picks them
// up; a digits-only run longer than six is ambiguous and stays rejected.
var (
	flexible  = regexp.MustCompile(`^(\d{1,2}):?(\d{2}):?(\d{2})$`)
	longHours = regexp.MustCompile(`^(\d{3,}):(\d{2}):(\d{2})$`)
)

// Format renders whole seconds as the transcript's "[HH:MM:SS]" stamp.
// Hours are unbounded above two digits. Invalid input fails closed to
// "[00:00:00]" so one bad offset cannot poison a whole transcript.
func Format(seconds int) string {
	return "[" + Canonical(seconds) + "]"
}

// Canonical renders whole seconds as plain zero-padded "HH:MM:SS".
func Canonical(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := seconds % 3600 / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// Parse accepts a loosely formatted timecode and returns total seconds.
func Parse(s string) (int, error) {
	trimmed := strings.TrimSpace(s)
	m := flexible.FindStringSubmatch(trimmed)
	if m == nil {
		m = longHours.FindStringSubmatch(trimmed)
	}
	if m == nil {
		return 0, fmt.Errorf("invalid timecode %q", s)
	}
	h, _ := strconv.Atoi(m[1])
	mi, _ := strconv.Atoi(m[2])
	se, _ := strconv.Atoi(m[3])
	return h*3600 + mi*60 + se, nil
}

// Normalize re-renders a loosely formatted timecode in canonical
// "HH:MM:SS" form.
func Normalize(s string) (string, error) {
	sec, err := Parse(s)
	if err != nil {
		return "", err
	}
	return Canonical(sec), nil
}
