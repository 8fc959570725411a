package content

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/tuitbot/tuitbot/pkg/toolkit"
)

const maxWeightedLength = 280

// numberedLinePattern matches a leading thread-index marker such as
// "1/8", "1.", or "1)" at the start of a line.
var numberedLinePattern = regexp.MustCompile(`^\s*\d+[/.)]\s*\d*\s*`)

// ParseThread splits a generated thread completion into individual
// tweets. It tries the "---" delimiter the prompt asks for first, and
// falls back to numbered-line splitting for completions that ignore
// the delimiter instruction. Every resulting tweet is re-validated
// against the weighted 280-character limit and truncated at a
// sentence boundary if the model ran over.
func ParseThread(raw string) []string {
	var parts []string
	if strings.Contains(raw, "---") {
		for _, p := range strings.Split(raw, "---") {
			p = strings.TrimSpace(p)
			if p != "" {
				parts = append(parts, p)
			}
		}
	}

	if len(parts) == 0 {
		parts = splitByNumberedLines(raw)
	}

	if len(parts) == 0 {
		if p := strings.TrimSpace(raw); p != "" {
			parts = []string{p}
		}
	}

	tweets := make([]string, 0, len(parts))
	for _, p := range parts {
		tweets = append(tweets, TruncateToWeightedLimit(p))
	}
	return tweets
}

func splitByNumberedLines(raw string) []string {
	lines := strings.Split(raw, "\n")
	var parts []string
	var current strings.Builder

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			parts = append(parts, s)
		}
		current.Reset()
	}

	sawMarker := false
	for _, line := range lines {
		if numberedLinePattern.MatchString(line) {
			sawMarker = true
			flush()
			line = numberedLinePattern.ReplaceAllString(line, "")
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(strings.TrimSpace(line))
	}
	flush()

	if !sawMarker {
		return nil
	}
	return parts
}

// TruncateToWeightedLimit shortens text to fit the 280 weighted-character
// cap, preferring to cut at the last sentence boundary before the limit
// over cutting mid-sentence.
func TruncateToWeightedLimit(text string) string {
	if toolkit.WeightedLength(text) <= maxWeightedLength {
		return text
	}

	runes := []rune(text)
	lo, hi := 0, len(runes)
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if toolkit.WeightedLength(string(runes[:mid])) <= maxWeightedLength {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	cut := string(runes[:lo])

	if idx := lastSentenceBoundary(cut); idx > 0 {
		return strings.TrimSpace(cut[:idx])
	}
	return strings.TrimSpace(cut)
}

func lastSentenceBoundary(s string) int {
	best := -1
	for i, r := range s {
		if r == '.' || r == '!' || r == '?' {
			if !unicode.IsDigit(peekNextRune(s, i)) {
				best = i + 1
			}
		}
	}
	return best
}

func peekNextRune(s string, byteIdx int) rune {
	rest := s[byteIdx+1:]
	for _, r := range rest {
		return r
	}
	return 0
}
