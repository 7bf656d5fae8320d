// Package oracle delegates parsing to an optional external process for
// languages with no reliable lexical heuristic. The oracle is strictly
// best-effort: every failure mode (missing binary, timeout, non-zero exit,
// unparseable output) is an error the folding engine swallows before
// falling back to its own scanners.
package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/zjrosen/plis/internal/folding"
	"github.com/zjrosen/plis/internal/log"
)

// CommandFactoryFunc creates an exec.Cmd. Tests use it to stub the
// external process.
type CommandFactoryFunc func(ctx context.Context, name string, args ...string) *exec.Cmd

// CommandOracle shells out to a configured executable. The source text is
// written to stdin; the process prints a JSON array of
// {"start":int,"end":int,"kind":"region"|"comment"} objects on stdout.
type CommandOracle struct {
	command        string
	args           []string
	commandFactory CommandFactoryFunc
}

// Option configures a CommandOracle.
type Option func(*CommandOracle)

// WithCommandFactory sets a custom command factory for testing.
func WithCommandFactory(fn CommandFactoryFunc) Option {
	return func(o *CommandOracle) {
		o.commandFactory = fn
	}
}

// New returns an oracle invoking command with args; the language ID is
// appended as the final argument on every call.
func New(command string, args []string, opts ...Option) *CommandOracle {
	o := &CommandOracle{command: command, args: args}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// wireRange is the oracle's stdout format.
type wireRange struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Kind  string `json:"kind"`
}

// Parse runs the external parser for one document. The caller bounds the
// call with a context deadline; cancellation kills the process.
func (o *CommandOracle) Parse(ctx context.Context, language, source string) ([]folding.Range, error) {
	if o.command == "" {
		return nil, fmt.Errorf("oracle: no command configured")
	}

	args := append(append([]string{}, o.args...), language)
	var cmd *exec.Cmd
	if o.commandFactory != nil {
		cmd = o.commandFactory(ctx, o.command, args...)
	} else {
		// #nosec G204 -- command and args come from the user's own config
		cmd = exec.CommandContext(ctx, o.command, args...)
	}
	cmd.Stdin = strings.NewReader(source)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debug(log.CatOracle, "invoking external parser",
		"command", o.command, "language", language, "bytes", len(source))

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("oracle: %s timed out: %w", o.command, ctx.Err())
		}
		return nil, fmt.Errorf("oracle: %s failed: %w (stderr: %s)",
			o.command, err, strings.TrimSpace(stderr.String()))
	}

	var wire []wireRange
	if err := json.Unmarshal(stdout.Bytes(), &wire); err != nil {
		return nil, fmt.Errorf("oracle: unparseable output from %s: %w", o.command, err)
	}

	ranges := make([]folding.Range, 0, len(wire))
	for _, w := range wire {
		kind, err := folding.ParseKind(w.Kind)
		if err != nil {
			kind = folding.KindRegion
		}
		ranges = append(ranges, folding.Range{Start: w.Start, End: w.End, Kind: kind})
	}
	return ranges, nil
}
