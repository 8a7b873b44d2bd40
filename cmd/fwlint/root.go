package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aretw0/fwlint"
	"github.com/aretw0/fwlint/internal/logging"
	"github.com/aretw0/fwlint/pkg/config"
)

// Exit codes.
const (
	exitOK        = 0
	exitViolation = 1
	exitConfig    = 2
)

// exitError carries the process exit code of a failed command. A nil err
// means the outcome was already reported.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func configErr(err error) error {
	return &exitError{code: exitConfig, err: err}
}

// app holds the state shared by every command of one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer
	lookup func(string) (string, bool)

	configPath string
	verbose    bool
	logFile    string

	cfg     config.Config
	logger  *slog.Logger
	cleanup func() error
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, lookup func(string) (string, bool)) int {
	a := &app{stdout: stdout, stderr: stderr, lookup: lookup}
	cmd := a.rootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if a.cleanup != nil {
		_ = a.cleanup()
	}
	if err == nil {
		return exitOK
	}

	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", ee.err)
		}
		return ee.code
	}
	// Flag and argument errors from cobra itself.
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return exitConfig
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fwlint",
		Short: "Validate a collection of YAML reasoning frameworks",
		Long: `fwlint checks that every framework document in a collection parses,
conforms to the framework schema, reaches a minimum size and passes the
configured content rules. Problems are reported per file; one broken
document never stops the run.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(args)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Config file (default: "+config.FileName+" in the collection root)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")
	flags.StringVar(&a.logFile, "log-file", "", "Write logs to a rotated file instead of stderr")

	cmd.AddCommand(
		a.checkCmd(),
		a.watchCmd(),
		a.layoutCmd(),
		a.schemaCmd(),
		a.inventoryCmd(),
		a.diagramCmd(),
		a.versionCmd(),
	)
	return cmd
}

// setup loads the configuration for the root named by args and installs
// the logger.
func (a *app) setup(args []string) error {
	root := config.DefaultRoot
	if env, ok := config.RootFromEnv(a.lookup); ok {
		root = env
	}
	if len(args) > 0 {
		root = args[0]
	}

	cfg, err := config.Load(a.configPath, root, a.lookup)
	if err != nil {
		return configErr(err)
	}
	if len(args) > 0 {
		cfg.Root = args[0]
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}
	if a.logFile != "" {
		cfg.Log.File = a.logFile
	}

	logger, cleanup, err := logging.Setup(logging.Config(cfg.Log), a.stderr)
	if err != nil {
		return configErr(fmt.Errorf("setting up logging: %w", err))
	}
	a.cfg = cfg
	a.logger = logger
	a.cleanup = cleanup
	return nil
}

// linter wires a Linter from the loaded configuration.
func (a *app) linter() (*fwlint.Linter, error) {
	l, err := fwlint.New(a.cfg, a.logger)
	if err != nil {
		return nil, configErr(err)
	}
	return l, nil
}
