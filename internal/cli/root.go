// Package cli wires configuration, logging and the prioritizer into the
// taskanalyzer command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/idilsaglam/taskanalyzer/internal/auth"
	"github.com/idilsaglam/taskanalyzer/internal/config"
	"github.com/idilsaglam/taskanalyzer/internal/logging"
	"github.com/idilsaglam/taskanalyzer/internal/metrics"
	"github.com/idilsaglam/taskanalyzer/internal/model"
	"github.com/idilsaglam/taskanalyzer/internal/prioritize"
	"github.com/idilsaglam/taskanalyzer/internal/scoring"
	"github.com/idilsaglam/taskanalyzer/internal/store"
	"github.com/idilsaglam/taskanalyzer/internal/tui"
	"github.com/idilsaglam/taskanalyzer/internal/ui"
)

// Version is set at build time with -ldflags.
var Version = "dev"

// Exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// rootFlags are the persistent flags shared by every subcommand.
type rootFlags struct {
	configPath string
	server     string
	offline    bool
	theme      string
}

// env is everything a command needs once config is loaded.
type env struct {
	logger      *zap.Logger
	prioritizer *prioritize.Prioritizer
	ids         *store.IDSource
	close       func()
}

// Run executes the command line and returns a process exit code.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}
	ui.Fail(stderr, err.Error())

	var ue usageError
	switch {
	case errors.As(err, &ue),
		errors.Is(err, model.ErrValidation),
		errors.Is(err, model.ErrEmptyInput):
		return ExitUsage
	default:
		return ExitError
	}
}

// NewRootCmd builds the command tree. The root command starts the TUI.
func NewRootCmd() *cobra.Command {
	var flags rootFlags

	root := &cobra.Command{
		Use:   "taskanalyzer",
		Short: "Enter tasks and rank them by priority",
		Long: `taskanalyzer collects tasks (title, due date, estimated hours, importance)
and ranks them. Scores come from the scoring service when it is reachable,
otherwise from a local formula.

Run without a subcommand to open the interactive screen.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.NoArgs(cmd, args); err != nil {
				return usageError{err}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			defer e.close()

			err = tui.Run(cmd.Context(), tui.Options{
				Analyzer: e.prioritizer,
				IDs:      e.ids,
				Logger:   e.logger.Named("tui"),
			})
			if err != nil {
				return fmt.Errorf("tui: %w", err)
			}
			return nil
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageError{err} })

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default ~/.config/taskanalyzer/config.yaml)")
	pf.StringVar(&flags.server, "server", "", "scoring service base URL")
	pf.BoolVar(&flags.offline, "offline", false, "skip the scoring service and score locally")
	pf.StringVar(&flags.theme, "theme", "", "output theme: classic, neon or mono")

	root.AddCommand(newAnalyzeCmd(&flags))
	root.AddCommand(newAuthCmd())
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "taskanalyzer %s\n", Version)
		},
	})
	return root
}

// setup loads config and builds the prioritizer for a command.
func setup(cmd *cobra.Command, flags rootFlags) (*env, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("server") {
		cfg.Service.URL = flags.server
		if err := cfg.Validate(); err != nil {
			return nil, usageError{err}
		}
	}
	if cmd.Flags().Changed("offline") {
		cfg.Offline = flags.offline
	}
	if cmd.Flags().Changed("theme") {
		cfg.UI.Theme = flags.theme
	}
	ui.SetTheme(cfg.UI.Theme)

	logger, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	m := metrics.New()

	creds, err := auth.NewStore()
	if err != nil {
		closeLog()
		return nil, err
	}

	var scorer prioritize.Scorer
	if !cfg.Offline {
		token := cfg.Service.Token
		if ti, err := creds.Get(); err != nil {
			logger.Warn("ignoring unreadable credentials", zap.Error(err))
		} else if ti != nil {
			token = ti.Token
		}
		scorer = scoring.NewClient(cfg.Service.URL, cfg.Service.Timeout,
			scoring.WithToken(token),
			scoring.WithLogger(logger.Named("scoring")),
		)
	}

	logger.Debug("configured",
		zap.String("service_url", cfg.Service.URL),
		zap.Duration("timeout", cfg.Service.Timeout),
		zap.Bool("offline", cfg.Offline))

	e := &env{
		logger: logger,
		prioritizer: prioritize.New(scorer,
			prioritize.WithLogger(logger.Named("prioritize")),
			prioritize.WithMetrics(m),
		),
		ids: store.NewIDSource(nil),
	}
	e.close = func() {
		if cfg.Metrics.Textfile != "" {
			if err := m.WriteTextfile(cfg.Metrics.Textfile); err != nil {
				logger.Warn("metrics textfile not written", zap.Error(err))
			}
		}
		closeLog()
	}
	return e, nil
}

// Main is the process entry point shared by cmd/taskanalyzer.
func Main(ctx context.Context) int {
	return Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}
