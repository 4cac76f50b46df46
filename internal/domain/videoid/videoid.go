// Package videoid extracts YouTube video ids from the URL shapes users
// actually paste: watch pages, live/shorts paths and youtu.be short links.
package videoid

import (
	"fmt"
	"net/url"
	"strings"
)

// FromURL returns the video id embedded in a YouTube URL.
func FromURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("invalid YouTube URL: %w", err)
	}

	switch u.Hostname() {
	case "www.youtube.com", "youtube.com", "m.youtube.com":
		if u.Path == "/watch" {
			if v := u.Query().Get("v"); v != "" {
				return v, nil
			}
		}
		if strings.HasPrefix(u.Path, "/live/") || strings.HasPrefix(u.Path, "/shorts/") {
			parts := strings.Split(strings.Trim(u.Path, "/"), "/")
			if id := parts[len(parts)-1]; id != "" {
				return id, nil
			}
		}
	case "youtu.be":
		if id := strings.Trim(u.Path, "/"); id != "" {
			return id, nil
		}
	}
	return "", fmt.Errorf("invalid YouTube URL: %q", raw)
}
