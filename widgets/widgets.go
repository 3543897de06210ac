package widgets

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderCell renders one grid glyph in color
func RenderCell(glyph rune, color lipgloss.Color) string {
	return lipgloss.NewStyle().Foreground(color).Render(string(glyph))
}

// RenderRow joins rendered cells with a space, adding a wider gap every group cells
func RenderRow(cells []string, group int) string {
	var out strings.Builder
	for i, c := range cells {
		if i > 0 {
			out.WriteString(" ")
			if group > 0 && i%group == 0 {
				out.WriteString(" ")
			}
		}
		out.WriteString(c)
	}
	return out.String()
}

// SliderBar returns a width-wide bar filled in proportion to value within [lo, hi]
func SliderBar(value, lo, hi float64, width int, fill, empty rune) string {
	if width <= 0 {
		return ""
	}
	frac := 0.0
	if hi > lo {
		frac = (value - lo) / (hi - lo)
	}
	frac = math.Max(0, math.Min(1, frac))
	n := int(math.Round(frac * float64(width)))
	return strings.Repeat(string(fill), n) + strings.Repeat(string(empty), width-n)
}

// RenderSlider renders "label [bar] value" with the label padded to labelWidth
func RenderSlider(label string, labelWidth int, bar string, value float64, style lipgloss.Style) string {
	return fmt.Sprintf("%-*s %s %5.1f", labelWidth, label, style.Render(bar), value)
}

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}
