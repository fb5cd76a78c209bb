package cli

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/five82/runlog/internal/app"
)

// runViewerFunc starts the interactive viewer, allowing it to be mocked in
// tests.
var runViewerFunc = app.Run

// isTerminalFunc reports whether w is an interactive terminal.
var isTerminalFunc = func(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func newViewCommand(g *globalOptions) *cobra.Command {
	var (
		src    sourceFlags
		follow bool
		step   int
	)

	cmd := &cobra.Command{
		Use:   "view [source...]",
		Short: "Browse logs in the interactive viewer",
		Long: `View opens the logs in a full-screen viewer with foldable steps, an
outline pane, search and jump-to-step. Press ? inside the viewer for keys.

With --follow, files and GitHub jobs are refetched in the background, so a
running job can be watched as it progresses.

When stdout is not a terminal the logs are printed instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminalFunc(cmd.OutOrStdout()) {
				return printDocuments(cmd, g, &src, args, step)
			}
			opts := appOptions(cmd, g, &src, args)
			opts.Follow = follow
			opts.Step = step
			return runViewerFunc(cmd.Context(), opts)
		},
	}

	src.register(cmd.Flags())
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep refetching sources in the background")
	cmd.Flags().IntVar(&step, "step", 0, "Open at step N (1-based)")
	return cmd
}
