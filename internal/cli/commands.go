package cli

import (
	"github.com/spf13/cobra"

	"github.com/backmassage/photoprep/internal/check"
	"github.com/backmassage/photoprep/internal/config"
	"github.com/backmassage/photoprep/internal/pipeline"
)

func newSheetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheet [dir]",
		Short: "Build contactsheet.jpg for a directory of photos",
		Long: `Build a contact sheet: every JPEG in the directory (except covers and
posters) shrunk to a 256 px tile, four tiles per row, written as
contactsheet.jpg next to the photos.

With --dirs, one sheet is built inside every "00"-marked subdirectory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, args, config.ModeFiles, pipeline.RunSheets)
		},
	}
	config.BindSheetFlags(cmd.Flags(), &a.cfg, &a.o)
	return cmd
}

func newRetinaCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "retina [root]",
		Short: "Shrink photo sets to retina size and mark them done",
		Long: `Normalize every "00"-marked subdirectory of root: photos taller than
2.25x their width or 800 px high or less are skipped, the rest are
optionally backed up into originals/, shrunk to fit 4320x4320 and
re-encoded (JPEG q75 in place, or WebP q80 replacing the JPEG).

A directory whose files all finished is renamed "00Name" -> "Name Mx".
With --files, root itself is processed and nothing is renamed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, args, config.ModeDirs, pipeline.RunRetina)
		},
	}
	config.BindRetinaFlags(cmd.Flags(), &a.cfg, &a.o)
	return cmd
}

func newAnalyzeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [dir]",
		Short: "Report dimensions and retina decisions without writing",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, args, config.ModeFiles, pipeline.Analyze)
		},
	}
	config.BindAnalyzeFlags(cmd.Flags(), &a.cfg, &a.o)
	return cmd
}

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run the codec and filesystem self-test",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := a.setup(cmd, nil, config.ModeFiles)
			if err != nil {
				return err
			}
			defer log.Close()
			if !check.RunCheck(&a.cfg, log) {
				return ErrRunFailed
			}
			return nil
		},
	}
}
