package main

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/granja/internal/ui"
)

var (
	// Group titles such as "Resources:" or "Flags:", alone on a line.
	reHeading = regexp.MustCompile(`(?m)^([A-Z][^\n]*:)\s*$`)

	// A command listed under a group: two spaces, the name, then padding.
	reSubcommand = regexp.MustCompile(`(?m)^(  )(\S+)(  )`)

	reFlagKind = regexp.MustCompile(`(--?\S+\s+)(string|int|duration|stringArray|stringSlice)`)

	reDefaultValue = regexp.MustCompile(`\(default [^)]*\)`)
)

// colorizedHelpFunc styles cobra's usage text when stdout is a color terminal.
func colorizedHelpFunc() func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		if !ui.ShouldUseColor() {
			_ = cmd.Usage()
			return
		}
		var buf bytes.Buffer
		cmd.SetOut(&buf)
		_ = cmd.Usage()
		cmd.SetOut(out)
		fmt.Fprint(out, colorizeHelp(buf.String()))
	}
}

func colorizeHelp(s string) string {
	s = reHeading.ReplaceAllStringFunc(s, func(m string) string {
		return ui.RenderAccent(strings.TrimSpace(m))
	})
	s = reSubcommand.ReplaceAllStringFunc(s, func(m string) string {
		p := reSubcommand.FindStringSubmatch(m)
		return p[1] + ui.RenderCommand(p[2]) + p[3]
	})
	s = reFlagKind.ReplaceAllStringFunc(s, func(m string) string {
		p := reFlagKind.FindStringSubmatch(m)
		return p[1] + ui.RenderMuted(p[2])
	})
	return reDefaultValue.ReplaceAllStringFunc(s, ui.RenderMuted)
}
