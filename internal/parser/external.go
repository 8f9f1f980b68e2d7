package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"

	"golang.org/x/sync/semaphore"
)

// externalResult is the JSON payload an external parser process must print
// to stdout: an elements array and an imports array.
type externalResult struct {
	Elements []CodeElement `json:"elements"`
	Imports  []string      `json:"imports"`
}

// ExternalBackend invokes an external parser process per file, passing the
// file path as the final argument. A weighted semaphore bounds simultaneous
// subprocesses so a large batch cannot exhaust the host.
type ExternalBackend struct {
	command []string
	timeout time.Duration
	sem     *semaphore.Weighted
}

// NewExternalBackend creates a backend running the given command. maxProcs
// bounds concurrent invocations; timeout bounds each one.
func NewExternalBackend(command []string, maxProcs int64, timeout time.Duration) (*ExternalBackend, error) {
	if len(command) == 0 {
		return nil, fmt.Errorf("external parser command is empty")
	}
	if maxProcs < 1 {
		maxProcs = 1
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &ExternalBackend{
		command: command,
		timeout: timeout,
		sem:     semaphore.NewWeighted(maxProcs),
	}, nil
}

// Parse runs the external process on one file and decodes its output.
// Non-zero exit, malformed output, or timeout surface as errors; the
// adapter downgrades them to soft per-file failures.
func (b *ExternalBackend) Parse(ctx context.Context, path string) ([]CodeElement, []string, error) {
	if err := b.sem.Acquire(ctx, 1); err != nil {
		return nil, nil, err
	}
	defer b.sem.Release(1)

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	args := append(append([]string{}, b.command[1:]...), path)
	cmd := exec.CommandContext(ctx, b.command[0], args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, nil, fmt.Errorf("external parser failed: %w (stderr: %s)", err, stderr.String())
	}

	var result externalResult
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		return nil, nil, fmt.Errorf("external parser produced malformed output: %w", err)
	}

	return result.Elements, result.Imports, nil
}
