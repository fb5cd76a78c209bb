package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/runlog/internal/render"
)

func newSectionsCommand(g *globalOptions) *cobra.Command {
	var src sourceFlags

	cmd := &cobra.Command{
		Use:   "sections [source...]",
		Short: "List the setup and step sections of each log",
		Long: `Sections prints one table per log with the line range and name of every
section: the leading setup region followed by one row per ##[group] step.
Line numbers are 1-based and inclusive.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, g, &src, args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, doc := range sess.Documents() {
				if i > 0 {
					fmt.Fprintln(out)
				}
				if err := render.Sections(out, doc); err != nil {
					return err
				}
			}
			return nil
		},
	}

	src.register(cmd.Flags())
	return cmd
}
