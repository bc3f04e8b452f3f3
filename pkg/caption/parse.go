package caption

import (
	"regexp"
	"strings"
)

var (
	summaryBlockPattern  = regexp.MustCompile(`(?is)resumo\s*:\s*(.*?)(?:hashtags\s*:|$)`)
	hashtagsLinePattern  = regexp.MustCompile(`(?is)hashtags\s*:\s*(.+)`)
	responseFallbackSize = 2000
)

// ParseSummaryResponse extracts the summary block and the hashtags line from
// the model output and joins them as "summary\n\n#tags". Partial output is
// fine; a response matching neither marker is returned as-is, clipped, since
// a loosely formatted answer still beats no caption.
func ParseSummaryResponse(response string) string {
	text := strings.TrimSpace(response)
	if text == "" {
		return ""
	}

	var summary, tagLine string
	if m := summaryBlockPattern.FindStringSubmatch(text); m != nil {
		summary = strings.TrimSpace(m[1])
	}
	if m := hashtagsLinePattern.FindStringSubmatch(text); m != nil {
		tagLine = strings.Join(strings.Fields(m[1]), " ")
	}

	switch {
	case summary != "" && tagLine != "":
		return summary + "\n\n" + tagLine
	case summary != "":
		return summary
	case tagLine != "":
		return tagLine
	}
	if len(text) > responseFallbackSize {
		return text[:responseFallbackSize]
	}
	return text
}
