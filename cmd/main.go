package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/aidarkhanov/nanoid"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ngld/bootstrap/pkg"
	"github.com/ngld/bootstrap/pkg/bootstrap"
	"github.com/ngld/bootstrap/pkg/config"
)

var rootCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Runs the setup steps a fresh checkout needs",
	Long: `After checking out the project there are certain steps that need to be taken before it
can be used. This command enumerates and automates these steps and only runs the ones that are
needed based on the timestamps of their input files.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, err := cmd.Flags().GetBool("verbose")
		if err != nil {
			return err
		}

		dryRun, err := cmd.Flags().GetBool("dry-run")
		if err != nil {
			return err
		}

		ctx, b, err := setup(cmd, verbose)
		if err != nil {
			return err
		}

		return b.Run(ctx, bootstrap.Options{
			Verbose: verbose,
			DryRun:  dryRun,
		})
	},
}

func init() {
	rootCmd.Flags().BoolP("dry-run", "n", false, "dry run; report the first out-of-date step and stop without executing anything")

	flags := rootCmd.PersistentFlags()
	flags.BoolP("verbose", "v", false, "verbose")
	flags.String("root", "", "project root (defaults to the closest parent directory containing .git or bootstrap.toml)")
	flags.String("stamp-dir", "", "directory for stamp files, relative to the project root (default \"out\")")
	flags.String("manifest", "", "action manifest (.yml or .star) to use instead of the built-in steps (default: bootstrap.star, bootstrap.yml or bootstrap.yaml in the project root)")
	flags.Bool("log-json", false, "output JSON lines instead of pretty console messages")
}

// setup resolves the project root, loads the config and action table and builds a Bootstrapper
// with a logger attached to the returned context.
func setup(cmd *cobra.Command, verbose bool) (context.Context, *bootstrap.Bootstrapper, error) {
	flags := cmd.Flags()
	root, err := flags.GetString("root")
	if err != nil {
		return nil, nil, err
	}

	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, nil, eris.Wrap(err, "Failed to retrieve the current working directory")
		}

		root, err = pkg.GetProjectRoot(wd)
		if err != nil {
			return nil, nil, err
		}
	}

	cfg, err := config.Load(root)
	if err != nil {
		return nil, nil, err
	}

	if flags.Changed("stamp-dir") {
		cfg.StampDir, _ = flags.GetString("stamp-dir")
	}
	if flags.Changed("manifest") {
		cfg.Manifest, _ = flags.GetString("manifest")
	}
	if flags.Changed("log-json") {
		cfg.Log.JSON, _ = flags.GetBool("log-json")
	}

	if err = cfg.Validate(); err != nil {
		return nil, nil, err
	}

	level := cfg.LogLevel()
	if verbose && level > zerolog.DebugLevel {
		level = zerolog.DebugLevel
	}

	var logger zerolog.Logger
	if cfg.Log.JSON {
		logger = zerolog.New(cmd.ErrOrStderr()).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(NewConsoleWriter(cmd.ErrOrStderr()))
	}
	logger = logger.Level(level).With().Str("run", nanoid.New()).Logger()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = bootstrap.WithLogger(ctx, &logger)

	if cfg.Manifest == "" {
		cfg.Manifest, err = pkg.FindManifest(root)
		if err != nil {
			return nil, nil, err
		}
	}

	actions := bootstrap.DefaultActions()
	if cfg.Manifest != "" {
		manifest := cfg.Manifest
		if !filepath.IsAbs(manifest) {
			manifest = filepath.Join(root, manifest)
		}

		actions, err = bootstrap.LoadManifest(ctx, manifest)
		if err != nil {
			return nil, nil, err
		}
	}

	logger.Debug().Str("path", root).Msgf("project root %s", root)
	if cfg.Manifest != "" {
		logger.Debug().Str("path", cfg.Manifest).Msgf("actions from %s", cfg.Manifest)
	}
	b, err := bootstrap.New(root, cfg.StampDir, actions, &bootstrap.ShellExecutor{
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, nil, err
	}

	return ctx, b, nil
}

// Execute runs the CLI and terminates the process with a non-zero status on failure
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		ExitWithError(err)
	}
}
