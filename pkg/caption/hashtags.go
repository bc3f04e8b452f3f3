package caption

import (
	"regexp"
	"strings"
)

var hashtagPattern = regexp.MustCompile(`#[^\s#]+`)

// NormalizeHashtags pulls every hashtag out of the text, dedupes them
// case-insensitively and reattaches them lowercased on a single trailing
// line. Text without hashtags comes back trimmed and otherwise untouched.
func NormalizeHashtags(text string) string {
	tags := hashtagPattern.FindAllString(text, -1)
	if len(tags) == 0 {
		return strings.TrimSpace(text)
	}

	seen := make(map[string]bool, len(tags))
	unique := make([]string, 0, len(tags))
	for _, tag := range tags {
		lower := strings.ToLower(tag)
		if !seen[lower] {
			seen[lower] = true
			unique = append(unique, lower)
		}
	}

	body := hashtagPattern.ReplaceAllString(text, "")
	var lines []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}

	tagLine := strings.Join(unique, " ")
	if len(lines) == 0 {
		return tagLine
	}
	return strings.Join(lines, "\n") + "\n\n" + tagLine
}
