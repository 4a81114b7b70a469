package ui

import "fmt"

// ANSI256 color codes matching the Ayu palette.
const (
	colorAccent  = 74  // blue
	colorCmd     = 250 // light gray
	colorMuted   = 245 // medium gray
	colorSuccess = 114 // green
	colorDanger  = 203 // red
	colorWarning = 214 // orange
	colorInfo    = 117 // light blue
)

var noColor bool

func paint(code int, s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, s)
}

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string { return paint(colorAccent, s) }

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string { return paint(colorMuted, s) }

// RenderCommand returns s styled as a command name (light gray).
func RenderCommand(s string) string { return paint(colorCmd, s) }

// RenderSuccess returns s in green.
func RenderSuccess(s string) string { return paint(colorSuccess, s) }

// RenderDanger returns s in red.
func RenderDanger(s string) string { return paint(colorDanger, s) }

// RenderWarning returns s in orange.
func RenderWarning(s string) string { return paint(colorWarning, s) }

// RenderInfo returns s in light blue.
func RenderInfo(s string) string { return paint(colorInfo, s) }

// RenderBold returns s in bold.
func RenderBold(s string) string {
	if noColor {
		return s
	}
	return "\x1b[1m" + s + "\x1b[0m"
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}

// ColorEnabled reports whether the Render helpers emit escape codes.
func ColorEnabled() bool { return !noColor }

// Setup disables color when stdout should not be colored.
func Setup() {
	if !ShouldUseColor() {
		ForceNoColor()
	}
}

// ANSI256 returns the palette code for a named color, used by lipgloss
// based renderers to stay consistent with the Render helpers.
func ANSI256(name string) string {
	switch name {
	case "accent":
		return fmt.Sprint(colorAccent)
	case "muted":
		return fmt.Sprint(colorMuted)
	case "success":
		return fmt.Sprint(colorSuccess)
	case "danger":
		return fmt.Sprint(colorDanger)
	case "warning":
		return fmt.Sprint(colorWarning)
	case "info":
		return fmt.Sprint(colorInfo)
	}
	return fmt.Sprint(colorCmd)
}
