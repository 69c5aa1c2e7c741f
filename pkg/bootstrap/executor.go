package bootstrap

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Executor runs a single command in dir and returns an error if it couldn't be started or
// didn't exit cleanly.
type Executor interface {
	Execute(ctx context.Context, dir string, argv []string) error
}

// ExecutorFunc adapts a plain function to the Executor interface
type ExecutorFunc func(ctx context.Context, dir string, argv []string) error

// Execute calls f
func (f ExecutorFunc) Execute(ctx context.Context, dir string, argv []string) error {
	return f(ctx, dir, argv)
}

// ShellExecutor runs commands through the mvdan.cc/sh interpreter so that builtins and PATH
// lookups behave the same on every platform.
type ShellExecutor struct {
	Stdout io.Writer
	Stderr io.Writer
	// Env is appended to the process environment
	Env []string
}

var defaultExecHandler = interp.DefaultExecHandler(2 * time.Second)

// Execute runs argv without any shell expansion
func (e *ShellExecutor) Execute(ctx context.Context, dir string, argv []string) error {
	if len(argv) == 0 {
		return eris.New("empty command")
	}

	stdout := e.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := e.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	runner, err := interp.New(
		interp.Dir(dir),
		interp.Env(expand.ListEnviron(append(os.Environ(), e.Env...)...)),
		interp.ExecHandler(defaultExecHandler),
		interp.StdIO(nil, stdout, stderr),
	)
	if err != nil {
		return eris.Wrap(err, "failed to initialize runner")
	}

	return runner.Run(ctx, commandStmt(argv))
}

// commandStmt builds a call statement with every argument single-quoted so nothing gets expanded
func commandStmt(argv []string) *syntax.Stmt {
	call := &syntax.CallExpr{Args: make([]*syntax.Word, len(argv))}
	for idx, arg := range argv {
		call.Args[idx] = &syntax.Word{
			Parts: []syntax.WordPart{&syntax.SglQuoted{Value: arg}},
		}
	}

	return &syntax.Stmt{Cmd: call}
}

func exitCode(err error) int {
	if status, ok := interp.IsExitStatus(err); ok {
		return int(status)
	}

	return -1
}
