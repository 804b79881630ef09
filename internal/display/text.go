package display

import "github.com/muesli/reflow/truncate"

const DefaultChatLength = 120

// Truncate cuts text to at most width printable cells, keeping ANSI escape
// sequences intact.
func Truncate(text string, width uint) string {
	return truncate.String(text, width)
}
