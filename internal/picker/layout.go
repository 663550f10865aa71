package picker

import "unicode/utf8"

const (
	ellipsis = "..."
	// header, blank line, blank line before footer, footer
	chromeLines = 4
	// title line plus URL line
	linesPerResult = 2
)

// visibleRange returns the [start, end) window of results that fits the
// terminal height while keeping the cursor on screen.
func visibleRange(height, cursor, total int) (start, end int) {
	maxVisible := (height - chromeLines) / linesPerResult
	if maxVisible < 1 {
		maxVisible = 1
	}
	if total <= maxVisible {
		return 0, total
	}

	if cursor >= maxVisible {
		start = cursor - maxVisible + 1
	}

	end = start + maxVisible
	if end > total {
		end = total
	}
	return start, end
}

// truncate shortens text to maxWidth runes, ending in an ellipsis when cut.
func truncate(text string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if utf8.RuneCountInString(text) <= maxWidth {
		return text
	}

	if maxWidth <= len(ellipsis) {
		return ellipsis[:maxWidth]
	}
	runes := []rune(text)
	return string(runes[:maxWidth-len(ellipsis)]) + ellipsis
}
