package fetch

import (
	"context"
	"errors"
	"regexp"
	"strings"
)

// Result holds the downloaded file and the post description, when the
// extractor exposed one. The caller owns Path and must remove it.
type Result struct {
	Path        string
	Description string
}

// Fetcher downloads the video behind a post URL into a temporary directory.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Result, error)
}

// ErrNoVideo means the post exists but carries no video (image-only post,
// carousel of photos). It is terminal; retrying will not help.
var ErrNoVideo = errors.New("post contains no video")

var instagramURLPattern = regexp.MustCompile(`(?i)https?://(?:www\.)?instagram\.com/(?:reel|p)/[^\s]+`)

// ExtractURLs returns every Instagram reel/post URL found in text.
func ExtractURLs(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return instagramURLPattern.FindAllString(text, -1)
}

// IsRetryable reports whether the error looks like throttling by the source,
// which a backoff-and-retry can get past. Everything else is treated as
// permanent for the current job.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "429") || strings.Contains(msg, "too many requests") {
		return true
	}
	if strings.Contains(msg, "rate-limit") || strings.Contains(msg, "rate_limit") || strings.Contains(msg, "login required") {
		return true
	}
	return false
}
