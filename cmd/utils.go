package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/jwalton/gchalk"
	"github.com/lodestonemc/lodestone/internals/commands"
	"github.com/lodestonemc/lodestone/internals/instances"
)

// openInstance resolves an instance by name argument or, with no
// argument, from the current working directory
func openInstance(args []string) (*instances.Instance, error) {
	if len(args) != 0 {
		instance, err := instances.Open(filepath.Join(instancesRoot(), args[0]))
		if err != nil {
			return nil, &commands.CliError{
				Text: fmt.Sprintf("no instance named %q", args[0]),
				Suggestions: []string{
					"run `lodestone instance list` to see what is there",
					"create one with `lodestone instance create`",
				},
			}
		}
		return instance, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	instance, err := instances.Open(wd)
	if err != nil {
		return nil, &commands.CliError{
			Text: "the current directory is not an instance",
			Help: "pass an instance name or cd into an instance directory",
		}
	}
	return instance, nil
}

// maybeSpinner is a spinner that degrades to plain lines on dumb
// terminals and CI
type maybeSpinner struct {
	spin    *spinner.Spinner
	Spin    bool
	current string
}

func newMaybeSpinner(spin bool) *maybeSpinner {
	return &maybeSpinner{
		spin: spinner.New(spinner.CharSets[9], 300*time.Millisecond),
		Spin: spin,
	}
}

func (m *maybeSpinner) Start() {
	if m.Spin {
		m.spin.Start()
	}
}

func (m *maybeSpinner) Update(text string) {
	if text == m.current {
		return
	}
	m.current = text
	if m.Spin {
		m.spin.Suffix = " " + text
		return
	}
	fmt.Println(gchalk.Gray("│ " + text))
}

func (m *maybeSpinner) Stop() {
	if m.Spin {
		m.spin.Stop()
	}
}

// cliTasks renders bootstrap task updates through the spinner. It is
// the terminal implementation of the bootstrap task sink
type cliTasks struct {
	spin *maybeSpinner
}

func (t *cliTasks) CreateTask(id string, name string) error {
	t.spin.Start()
	t.spin.Update(name)
	return nil
}

func (t *cliTasks) UpdateTask(id string, percent float64, message string) error {
	if percent >= 0 {
		t.spin.Update(fmt.Sprintf("%3.0f%% %s", percent, message))
		return nil
	}
	t.spin.Update(message)
	return nil
}

func (t *cliTasks) RemoveTask(id string) error {
	t.spin.Stop()
	return nil
}

// pipe prints one line of the launch flow output
func pipe(parts ...string) {
	fmt.Println("│ " + strings.Join(parts, " "))
}
