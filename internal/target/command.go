package target

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// CommandResult bundles the observable outcome of a successful
// external-process target: the captured output streams and the output
// directory the process ran in.
type CommandResult struct {
	Output string `json:"output"`
	Stderr string `json:"stderr"`
	Dest   string `json:"dest"`
}

// Command builds an external-process leaf.
//
// inputs supply whatever targets feed arguments to the command; argv
// builds the resolved command line from their values. Evaluation:
//
//  1. Ensures the target's output directory exists (recursive, idempotent)
//  2. Builds the command line via argv
//  3. Runs the process synchronously with the output directory as
//     working directory, capturing stdout and stderr
//  4. Treats any non-zero exit status as a fatal failure of this
//     evaluation (no retry)
//  5. On success returns the captured output and the directory path
//
// Directory creation and process spawning are part of the contract,
// not incidental side effects.
func Command(id Identity, inputs []Node, argv func(*Args) ([]string, error), opts ...Option[CommandResult]) *Target[CommandResult] {
	eval := func(ctx context.Context, args *Args) (CommandResult, error) {
		var zero CommandResult

		dest := args.Dest()
		if dest == "" {
			return zero, fmt.Errorf("command target %s: no output directory assigned", id)
		}
		if err := os.MkdirAll(dest, 0o755); err != nil {
			return zero, fmt.Errorf("create output directory %s: %w", dest, err)
		}

		line, err := argv(args)
		if err != nil {
			return zero, fmt.Errorf("build command line: %w", err)
		}
		if len(line) == 0 {
			return zero, fmt.Errorf("command target %s: empty command line", id)
		}

		cmd := exec.CommandContext(ctx, line[0], line[1:]...)
		cmd.Dir = dest

		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		if err := cmd.Run(); err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				return zero, fmt.Errorf("command %q exited with status %d: %s",
					line[0], exitErr.ExitCode(), strings.TrimSpace(stderr.String()))
			}
			return zero, fmt.Errorf("run command %q: %w", line[0], err)
		}

		return CommandResult{
			Output: stdout.String(),
			Stderr: stderr.String(),
			Dest:   dest,
		}, nil
	}
	return New(id, inputs, eval, opts...)
}
