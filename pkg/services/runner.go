package services

import (
	"bytes"
	"context"
	"io"
	"os/exec"
)

// Runner executes external tools (git, the package manager) in a directory.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) (string, error)
}

// ExecRunner runs real processes. When Stream is set, output is also copied there as it arrives.
type ExecRunner struct {
	Stream io.Writer
}

func (r ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var buf bytes.Buffer
	var out io.Writer = &buf
	if r.Stream != nil {
		out = io.MultiWriter(&buf, r.Stream)
	}
	cmd.Stdout = out
	cmd.Stderr = out

	err := cmd.Run()
	return buf.String(), err
}
