// Package runner starts the external PypeIt programs.
package runner

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/specred/specred/internal/log"
)

// Runner runs an external program to completion
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// Exec runs programs as child processes sharing our stdout and stderr
type Exec struct {
	// Dir is the working directory, empty for the current one
	Dir string
}

// Run implements Runner
func (e Exec) Run(ctx context.Context, name string, args ...string) error {
	log.Infof("running %s", CommandLine(name, args...))
	defer log.Elapsed(time.Now(), "finished "+name)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = e.Dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w", name, err)
	}
	return nil
}

// CommandLine renders a command for logs and for copy-pasting
func CommandLine(name string, args ...string) string {
	parts := append([]string{name}, args...)
	return strings.Join(parts, " ")
}

// Call is one recorded invocation
type Call struct {
	Name string
	Args []string
}

// Recorder is a Runner that only remembers what it was asked to run
type Recorder struct {
	Calls []Call
	Err   error
}

// Run implements Runner
func (r *Recorder) Run(_ context.Context, name string, args ...string) error {
	r.Calls = append(r.Calls, Call{Name: name, Args: append([]string(nil), args...)})
	return r.Err
}

// DryRun logs commands without running them
type DryRun struct{}

// Run implements Runner
func (DryRun) Run(_ context.Context, name string, args ...string) error {
	log.Infof("dry run: %s", CommandLine(name, args...))
	return nil
}
