package commands

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestCliError_RichError(t *testing.T) {
	err := &CliError{
		Text: "instance not found",
		Help: "names are case sensitive",
		Suggestions: []string{
			"run `lodestone instance list`",
			"create it with `lodestone instance create`",
		},
	}

	rendered := err.RichError()
	if !strings.Contains(rendered, "instance not found") {
		t.Errorf("rendered error misses the message: %q", rendered)
	}
	if !strings.Contains(rendered, "Suggestions:") {
		t.Errorf("plural suggestions expected: %q", rendered)
	}
	for _, s := range err.Suggestions {
		if !strings.Contains(rendered, s) {
			t.Errorf("suggestion %q missing from %q", s, rendered)
		}
	}
}

func TestCliError_singleSuggestion(t *testing.T) {
	err := &CliError{Text: "boom", Suggestions: []string{"try again"}}
	rendered := err.RichError()
	if !strings.Contains(rendered, "Suggestion:") || strings.Contains(rendered, "Suggestions:") {
		t.Errorf("want singular suggestion header: %q", rendered)
	}
}

func TestCliError_unwrapsThroughErrorsAs(t *testing.T) {
	var cliErr *CliError
	wrapped := fmt.Errorf("running command: %w", &CliError{Text: "inner"})
	if !errors.As(wrapped, &cliErr) {
		t.Fatal("errors.As should find the CliError")
	}
	if cliErr.Error() != "inner" {
		t.Errorf("unexpected message %q", cliErr.Error())
	}
}
