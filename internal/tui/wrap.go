package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// wrapText breaks text into lines no wider than width cells, preferring
// breaks at spaces. Words wider than the line are split by cell width.
func wrapText(text string, width int) []string {
	text = strings.TrimSpace(text)
	if width <= 0 || runewidth.StringWidth(text) <= width {
		return []string{text}
	}
	var lines []string
	var line strings.Builder
	lineWidth := 0
	flush := func() {
		lines = append(lines, line.String())
		line.Reset()
		lineWidth = 0
	}
	for _, word := range strings.Fields(text) {
		wordWidth := runewidth.StringWidth(word)
		if lineWidth > 0 && lineWidth+1+wordWidth > width {
			flush()
		}
		for wordWidth > width {
			head := runewidth.Truncate(word, width, "")
			if head == "" {
				break
			}
			if lineWidth > 0 {
				flush()
			}
			lines = append(lines, head)
			word = word[len(head):]
			wordWidth = runewidth.StringWidth(word)
		}
		if word == "" {
			continue
		}
		if lineWidth > 0 {
			line.WriteByte(' ')
			lineWidth++
		}
		line.WriteString(word)
		lineWidth += wordWidth
	}
	if lineWidth > 0 {
		flush()
	}
	return lines
}
