package commands

import (
	"fmt"
	"strings"

	"github.com/jwalton/gchalk"
)

// ErrorBox renders an error message (plus optional help text) in a
// red block the user can not miss
func ErrorBox(errorString string, helpText string) string {
	var b strings.Builder
	b.WriteString(gchalk.WithBgRed().White(Emoji("❗ ") + fmt.Sprintf("Error: %s", errorString)))
	if helpText != "" {
		b.WriteString("\n")
		b.WriteString(gchalk.Dim(helpText))
	}
	return b.String()
}
