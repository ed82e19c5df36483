// Package cli wires the photoprep command tree: one cobra command per tool,
// sharing the global flags bound onto a single config.Config.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/backmassage/photoprep/internal/config"
	"github.com/backmassage/photoprep/internal/display"
	"github.com/backmassage/photoprep/internal/logging"
	"github.com/backmassage/photoprep/internal/pipeline"
)

// ErrRunFailed is returned when a run finished but some files or
// directories failed. The details have already been logged.
var ErrRunFailed = errors.New("run finished with failures")

var (
	version = "dev"
	commit  = "unknown"
)

// SetVersion records the build version and commit injected via -ldflags.
func SetVersion(v, c string) {
	if v != "" {
		version = v
	}
	if c != "" {
		commit = c
	}
}

// Execute builds the command tree and runs it against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// app carries the state one invocation shares across its commands.
type app struct {
	cfg config.Config
	o   config.Overrides

	// logOut, when set, replaces the console sink of the logger.
	logOut io.Writer
}

// NewRootCmd returns a fresh command tree with its own config.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{cfg: config.DefaultConfig()})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:     "photoprep",
		Version: fmt.Sprintf("%s (%s)", version, commit),
		Short:   "Contact sheets and retina normalization for photo sets",
		Long: `photoprep prepares directories of JPEG photos for delivery.

  sheet    builds a contactsheet.jpg index of every photo in a directory
  retina   shrinks photos to 4320 px, re-encodes them and marks finished
           "00"-prefixed directories as "<name> Mx"
  analyze  previews what retina would do without touching anything
  check    runs a codec self-test`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	root.SetVersionTemplate("{{.Version}}\n")

	config.BindGlobalFlags(root.PersistentFlags(), &a.cfg, &a.o)

	root.AddCommand(
		newSheetCmd(a),
		newRetinaCmd(a),
		newAnalyzeCmd(a),
		newCheckCmd(a),
	)
	return root
}

// job is one pipeline entry point.
type job func(context.Context, *config.Config, *logging.Logger) pipeline.RunStats

// setup finalizes the config for mode and opens the logger.
func (a *app) setup(cmd *cobra.Command, args []string, mode config.Mode) (*logging.Logger, error) {
	a.cfg.Mode = mode
	a.o.Apply(&a.cfg)
	if err := config.SetRoot(&a.cfg, args); err != nil {
		return nil, err
	}
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logging.NewLogger(&a.cfg)
	if err != nil {
		return nil, err
	}
	if a.logOut != nil {
		log.SetOutput(a.logOut)
	}
	display.PrintBanner(cmd.OutOrStdout())
	return log, nil
}

// run executes fn under a context that SIGINT/SIGTERM cancel, so workers
// stop between files and no directory is renamed mid-run.
func (a *app) run(cmd *cobra.Command, args []string, mode config.Mode, fn job) error {
	log, err := a.setup(cmd, args, mode)
	if err != nil {
		return err
	}
	defer log.Close()

	log.Info("=== photoprep %s (%s) ===", version, commit)
	log.Info("Root: %s", a.cfg.Root)
	log.Debug(a.cfg.Verbose, "Mode: %s, workers: %d", a.cfg.Mode, a.cfg.Workers)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Received interrupt, finishing current files…")
			cancel()
		case <-ctx.Done():
		}
	}()

	stats := fn(ctx, &a.cfg, log)
	if stats.Err != nil {
		return stats.Err
	}
	if !stats.OK() {
		return ErrRunFailed
	}
	return nil
}
