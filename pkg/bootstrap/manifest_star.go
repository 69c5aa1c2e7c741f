package bootstrap

import (
	"context"
	"os"
	"runtime"

	"github.com/rotisserie/eris"
	"go.starlark.net/starlark"
)

type starlarkCtx struct {
	ctx      context.Context
	filename string
	actions  ActionList
}

func getStarlarkCtx(thread *starlark.Thread) *starlarkCtx {
	return thread.Local("manifestCtx").(*starlarkCtx)
}

func starlarkIterable2stringSlice(input starlark.Iterable, field string) ([]string, error) {
	result := make([]string, 0)
	iter := input.Iterate()
	defer iter.Done()

	var item starlark.Value
	for iter.Next(&item) {
		switch value := item.(type) {
		case starlark.String:
			result = append(result, value.GoString())
		default:
			return nil, eris.Errorf("expected all items in %s to be strings but found %s", field, item.Type())
		}
	}
	return result, nil
}

func starAction(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var action Action
	var cmd starlark.Iterable

	err := starlark.UnpackArgs(fn.Name(), args, kwargs, "name", &action.Name, "input", &action.Input, "cmd", &cmd)
	if err != nil {
		return nil, err
	}

	action.Command, err = starlarkIterable2stringSlice(cmd, "cmd")
	if err != nil {
		return nil, err
	}

	sctx := getStarlarkCtx(thread)
	sctx.actions = append(sctx.actions, action)
	return starlark.None, nil
}

func starGetenv(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	var defaultValue starlark.String

	err := starlark.UnpackArgs(fn.Name(), args, kwargs, "name", &name, "default?", &defaultValue)
	if err != nil {
		return nil, err
	}

	value, ok := os.LookupEnv(name)
	if !ok {
		return defaultValue, nil
	}
	return starlark.String(value), nil
}

func starInfo(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var msg string
	err := starlark.UnpackArgs(fn.Name(), args, kwargs, "msg", &msg)
	if err != nil {
		return nil, err
	}

	sctx := getStarlarkCtx(thread)
	pos := thread.CallFrame(1).Pos
	logger(sctx.ctx).Info().Msgf("%s:%d:%d: %s", sctx.filename, pos.Line, pos.Col, msg)
	return starlark.None, nil
}

func loadStarlarkManifest(ctx context.Context, filename string) (ActionList, error) {
	script, err := os.ReadFile(filename)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to read %s", filename)
	}

	builtins := starlark.StringDict{
		"OS":     starlark.String(runtime.GOOS),
		"ARCH":   starlark.String(runtime.GOARCH),
		"action": starlark.NewBuiltin("action", starAction),
		"getenv": starlark.NewBuiltin("getenv", starGetenv),
		"info":   starlark.NewBuiltin("info", starInfo),
	}

	thread := &starlark.Thread{
		Name: "manifest",
		Print: func(thread *starlark.Thread, msg string) {
			logger(ctx).Info().Str("thread", thread.Name).Msg(msg)
		},
	}
	sctx := &starlarkCtx{
		ctx:      ctx,
		filename: filename,
		actions:  make(ActionList, 0),
	}
	thread.SetLocal("manifestCtx", sctx)

	_, err = starlark.ExecFile(thread, filename, script, builtins)
	if err != nil {
		if evalError, ok := err.(*starlark.EvalError); ok {
			return nil, eris.Errorf("failed to execute %s:\n%s", filename, evalError.Backtrace())
		}
		return nil, eris.Wrapf(err, "failed to execute %s", filename)
	}

	return sctx.actions, nil
}
