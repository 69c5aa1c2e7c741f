package bootstrap

import (
	"context"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// Bootstrapper evaluates an action table against the stamps in its stamp directory
type Bootstrapper struct {
	root     string
	stampDir string
	actions  ActionList
	exec     Executor
}

// New creates a Bootstrapper for the project at root. A relative stampDir is resolved against
// root. The action list is validated but the inputs are only checked once an action is evaluated.
func New(root, stampDir string, actions ActionList, exec Executor) (*Bootstrapper, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to resolve project root %s", root)
	}

	if stampDir == "" {
		return nil, eris.New("no stamp directory configured")
	}
	if !filepath.IsAbs(stampDir) {
		stampDir = filepath.Join(root, stampDir)
	}

	if err = actions.Validate(); err != nil {
		return nil, err
	}

	if exec == nil {
		exec = &ShellExecutor{}
	}

	return &Bootstrapper{
		root:     root,
		stampDir: filepath.Clean(stampDir),
		actions:  actions,
		exec:     exec,
	}, nil
}

// Root returns the absolute project root
func (b *Bootstrapper) Root() string {
	return b.root
}

// Actions returns the action table in execution order
func (b *Bootstrapper) Actions() ActionList {
	return b.actions
}

// Run brings every out-of-date action up to date, in order. The first failing command aborts
// the run and its stamp is left alone so the next run retries it.
//
// In dry-run mode Run stops at the first out-of-date action after reporting the command it
// would have executed. Later actions aren't checked at all.
func (b *Bootstrapper) Run(ctx context.Context, opts Options) error {
	for _, action := range b.actions {
		if err := ctx.Err(); err != nil {
			return err
		}

		stale, err := b.IsStale(action)
		if err != nil {
			return err
		}

		log := logger(ctx).With().Str("action", action.Name).Logger()
		if !stale {
			log.Info().Msgf("Up-to-date: %s", action.Name)
			continue
		}

		log.Info().Msgf("Out-of-date: %s", action.Name)
		if opts.DryRun {
			log.Info().Bool("command", true).Msgf(" (skipping: dry run) -> %s", action.CommandLine())
			return nil
		}

		log.Info().Bool("command", true).Msgf(" -> %s", action.CommandLine())
		err = b.exec.Execute(ctx, b.root, action.Command)
		if err != nil {
			return &CommandError{
				Action:   action.Name,
				Command:  action.Command,
				ExitCode: exitCode(err),
				Err:      err,
			}
		}

		err = b.writeStamp(action)
		if err != nil {
			return err
		}
		log.Debug().Str("path", b.StampPath(action)).Msg("stamp updated")
	}

	return nil
}

// Check fails with an OutOfDateError for the first action that still has to run. It never
// executes anything and never touches the stamps.
func (b *Bootstrapper) Check(ctx context.Context) error {
	for _, action := range b.actions {
		stale, err := b.IsStale(action)
		if err != nil {
			return err
		}

		if stale {
			logger(ctx).Debug().Str("action", action.Name).Msg("out-of-date")
			return &OutOfDateError{Action: action.Name}
		}
	}

	return nil
}

// Status inspects every action without running anything
func (b *Bootstrapper) Status(ctx context.Context) ([]ActionStatus, error) {
	result := make([]ActionStatus, 0, len(b.actions))
	for _, action := range b.actions {
		status, err := b.inspect(action)
		if err != nil {
			return nil, err
		}

		result = append(result, status)
	}

	return result, nil
}
