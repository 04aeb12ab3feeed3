package commands

import "strings"

// CliError is an error meant for the user, with optional help text and
// remediation suggestions. Commands return it instead of printing
type CliError struct {
	Text        string
	Code        string
	Suggestions []string
	Help        string
}

func (e *CliError) Error() string {
	return e.Text
}

// RichError renders the full error block: message, help text and the
// suggestion list
func (e *CliError) RichError() string {
	var b strings.Builder
	b.WriteString(ErrorBox(e.Text, e.Help))

	if len(e.Suggestions) != 0 {
		b.WriteString("\n")
		b.WriteString(Emoji("📎 "))
		if len(e.Suggestions) == 1 {
			b.WriteString("Suggestion:\n")
		} else {
			b.WriteString("Suggestions:\n")
		}
		for _, s := range e.Suggestions {
			b.WriteString(" ⦁ " + s + "\n")
		}
	}
	return b.String()
}
