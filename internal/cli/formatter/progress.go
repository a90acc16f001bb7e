package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a step bar like [████░░░░] 3/6. Steps past the
// total are clamped.
func RenderProgress(current, total, width int) string {
	if total <= 0 {
		return ""
	}
	if current < 0 {
		current = 0
	}
	if current > total {
		current = total
	}
	if width < 2 {
		width = 2
	}

	filled := current * width / total
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
	return fmt.Sprintf("[%s] %d/%d", StyleHeader.Render(bar), current, total)
}
