package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorAccent = lipgloss.Color("36")  // teal
	colorOK     = lipgloss.Color("35")  // green
	colorWarn   = lipgloss.Color("220") // amber
	colorFail   = lipgloss.Color("167") // soft red
	colorCmd    = lipgloss.Color("75")  // light blue
	colorText   = lipgloss.Color("255")
	colorMuted  = lipgloss.Color("245")
	colorFaint  = lipgloss.Color("240")
)

var (
	// StyleTitle renders headings such as the element tree root.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	// StyleHighlight renders ids and tokens inside status lines.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)

	StyleDim   = lipgloss.NewStyle().Foreground(colorFaint)
	StyleValue = lipgloss.NewStyle().Foreground(colorText)
	StyleWarn  = lipgloss.NewStyle().Foreground(colorWarn)
)

var (
	markOK      = lipgloss.NewStyle().Foreground(colorOK).Render("✓")
	markFail    = lipgloss.NewStyle().Foreground(colorFail).Render("✗")
	markWarn    = lipgloss.NewStyle().Foreground(colorWarn).Render("!")
	markInfo    = lipgloss.NewStyle().Foreground(colorMuted).Render("›")
	markFile    = StyleDim.Render("→")
	markToken   = StyleDim.Render("{}")
	styleSpin   = lipgloss.NewStyle().Foreground(colorAccent)
	styleHit    = lipgloss.NewStyle().Foreground(colorOK)
	styleMiss   = lipgloss.NewStyle().Foreground(colorMuted)
	styleCmd    = lipgloss.NewStyle().Foreground(colorCmd)
	styleKey    = lipgloss.NewStyle().Foreground(colorMuted).Width(12)
	statsJoiner = StyleDim.Render(" · ")
)

// printer writes human status lines. Machine output (JSON, images written to
// "-") goes through writeOutput instead so the two never interleave.
type printer struct {
	w io.Writer
}

func (c *CLI) ui() printer { return printer{w: c.out} }

func (p printer) line(s string) { fmt.Fprintln(p.w, s) }

func (p printer) success(format string, args ...any) {
	p.line(markOK + " " + fmt.Sprintf(format, args...))
}

func (p printer) fail(format string, args ...any) {
	p.line(markFail + " " + fmt.Sprintf(format, args...))
}

func (p printer) warn(format string, args ...any) {
	p.line(markWarn + " " + StyleWarn.Render(fmt.Sprintf(format, args...)))
}

func (p printer) info(format string, args ...any) {
	p.line(markInfo + " " + fmt.Sprintf(format, args...))
}

// detail prints an indented, muted line under the previous status line.
func (p printer) detail(format string, args ...any) {
	p.line("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

func (p printer) file(path string) {
	p.line("  " + markFile + " " + StyleValue.Render(path))
}

func (p printer) keyValue(key, value string) {
	p.line(styleKey.Render(key) + " " + StyleValue.Render(value))
}

func (p printer) nextStep(description, cmd string) {
	p.line(StyleDim.Render(description+":") + " " + styleCmd.Render(cmd))
}

func (p printer) token(token, label string) {
	p.line("  " + markToken + " " + StyleHighlight.Render(token) + " " + StyleDim.Render(label))
}

// stats prints document counts on one line. Zero counts are omitted and the
// cache state is shown only when cached is non-nil.
func (p printer) stats(elements, groups, missing int, cached *bool) {
	var parts []string
	if elements > 0 {
		parts = append(parts, StyleDim.Render(plural(elements, "element")))
	}
	if groups > 0 {
		parts = append(parts, StyleDim.Render(plural(groups, "group")))
	}
	if missing > 0 {
		parts = append(parts, StyleWarn.Render(plural(missing, "missing field")))
	}
	if cached != nil {
		if *cached {
			parts = append(parts, styleHit.Render("cached"))
		} else {
			parts = append(parts, styleMiss.Render("fresh"))
		}
	}
	if len(parts) == 0 {
		return
	}
	p.line("  " + strings.Join(parts, statsJoiner))
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
