package classifier

import (
	"regexp"
	"strings"
)

var (
	fencedBlock  = regexp.MustCompile("(?s)```.*?```")
	listMarker   = regexp.MustCompile(`^(?:[-*+]|\d+\.)\s+`)
	markupTokens = strings.NewReplacer("`", "", "**", "", "*", "", "__", "", "_", "", "~~", "", "#", "", ">", "")
)

// CountWords counts the words of text with markdown syntax removed.
func CountWords(text string) int {
	text = fencedBlock.ReplaceAllString(text, "")

	count := 0
	for _, line := range strings.Split(text, "\n") {
		line = listMarker.ReplaceAllString(strings.TrimSpace(line), "")
		trimmed := strings.TrimSpace(line)
		if isRule(trimmed) {
			continue
		}
		count += len(strings.Fields(markupTokens.Replace(line)))
	}
	return count
}

func isRule(line string) bool {
	return line == "---" || line == "***" || line == "___"
}
