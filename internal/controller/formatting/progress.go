package formatting

import (
	"fmt"
	"math"
	"strings"
)

const progressBarWidth = 10

// ProgressBar рисует полосу прохождения: ▓▓▓▓▓░░░░░ 50%
func ProgressBar(percentage float64) string {
	if percentage < 0 {
		percentage = 0
	}
	if percentage > 100 {
		percentage = 100
	}

	filled := int(math.Round(percentage / 100 * progressBarWidth))
	return fmt.Sprintf("%s%s %s",
		strings.Repeat("▓", filled),
		strings.Repeat("░", progressBarWidth-filled),
		FormatPercentage(percentage),
	)
}

// FormatPercentage форматирует процент без лишних нулей: 25%, 33.3%
func FormatPercentage(percentage float64) string {
	rounded := math.Round(percentage*10) / 10
	if rounded == math.Trunc(rounded) {
		return fmt.Sprintf("%.0f%%", rounded)
	}
	return fmt.Sprintf("%.1f%%", rounded)
}
