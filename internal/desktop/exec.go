package desktop

import (
	"context"
	"os/exec"
)

type runner interface {
	// Output runs the program to completion and returns its stdout. Stderr is
	// kept out of the result; on failure it is carried by *exec.ExitError.
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
	// CombinedOutput runs the program to completion and returns stdout and
	// stderr interleaved, for diagnostics.
	CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error)
	// Start launches the program without waiting for it.
	Start(ctx context.Context, name string, args ...string) error
}

type execRunner struct{}

func (execRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

func (execRunner) CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

func (execRunner) Start(_ context.Context, name string, args ...string) error {
	// Launchers outlive the request, so they are not tied to ctx.
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
