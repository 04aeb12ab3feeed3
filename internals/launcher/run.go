package launcher

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/shirou/gopsutil/v3/process"
)

// RunOptions control the spawned game process
type RunOptions struct {
	Stdout io.Writer
	Stderr io.Writer
	// Env entries appended to the inherited environment
	Env []string
}

// Cmd builds an exec.Cmd from the launch specification
func (s *LaunchSpec) Cmd(ctx context.Context, opts *RunOptions) *exec.Cmd {
	if opts == nil {
		opts = &RunOptions{}
	}

	cmd := exec.CommandContext(ctx, s.Java, s.Args()...)
	cmd.Dir = s.WorkingDir

	cmd.Env = os.Environ()
	cmd.Env = append(cmd.Env, opts.Env...)
	// some things rely on PWD
	cmd.Env = append(cmd.Env, "PWD="+s.WorkingDir)

	if opts.Stdout != nil {
		cmd.Stdout = opts.Stdout
	} else {
		cmd.Stdout = os.Stdout
	}
	if opts.Stderr != nil {
		cmd.Stderr = opts.Stderr
	} else {
		cmd.Stderr = os.Stderr
	}

	return cmd
}

// Run launches the game and blocks until it exits. Interrupts are
// forwarded to the game so it can save & shut down
func (s *LaunchSpec) Run(ctx context.Context, opts *RunOptions) error {
	cmd := s.Cmd(ctx, opts)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", s.Java, err)
	}

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupts)

	go func() {
		<-interrupts
		fmt.Println("Caught interrupt, stopping minecraft")
		cmd.Process.Signal(syscall.SIGTERM)
		signal.Stop(interrupts)

		// and bring our own process down afterwards
		p := process.Process{Pid: int32(os.Getpid())}
		p.Terminate()
	}()

	err := cmd.Wait()

	// code 130 means stopped via ctrl-c, not an error for us
	if cmd.ProcessState != nil && cmd.ProcessState.ExitCode() == 130 {
		return nil
	}
	return err
}
