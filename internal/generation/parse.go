package generation

import (
	"regexp"
	"strings"
)

var numberPrefix = regexp.MustCompile(`^\d+[.)]\s*`)

// ParseTips splits model output into tips.
//
// Lines are trimmed, blank lines are dropped and a leading "1." or "2)" style
// prefix is stripped. The remaining lines keep the order they were received in.
// A line that is nothing but a prefix is dropped as well.
func ParseTips(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	tips := make([]string, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimSpace(numberPrefix.ReplaceAllString(line, ""))
		if line == "" {
			continue
		}
		tips = append(tips, line)
	}

	return tips
}
