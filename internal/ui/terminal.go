package ui

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// ShouldUseColor reports whether stdout should get ANSI colors. NO_COLOR
// wins, then CLICOLOR_FORCE=1 and CLICOLOR=0, then TTY detection.
func ShouldUseColor() bool {
	switch {
	case os.Getenv("NO_COLOR") != "":
		return false
	case env("CLICOLOR_FORCE") == "1":
		return true
	case env("CLICOLOR") == "0":
		return false
	}
	return IsTerminal(os.Stdout)
}

func env(key string) string { return strings.TrimSpace(os.Getenv(key)) }

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// ReadSecret reads a line from the terminal f without echo.
func ReadSecret(f *os.File) (string, error) {
	b, err := term.ReadPassword(int(f.Fd()))
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(b), "\r\n"), nil
}
