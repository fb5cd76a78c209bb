package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/runlog/internal/render"
)

func newDumpCommand(g *globalOptions) *cobra.Command {
	var (
		src    sourceFlags
		format string
	)

	cmd := &cobra.Command{
		Use:   "dump [source...]",
		Short: "Dump parsed lines, nodes and sections as JSON or YAML",
		Long: `Dump writes the parsed structure of every log: each line with its typed
nodes and group links, and the section list. Offsets are byte offsets into
the raw line.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := render.DumpFormat(strings.ToLower(strings.TrimSpace(format)))
			if f != render.FormatJSON && f != render.FormatYAML {
				return fmt.Errorf("invalid format %q (want json or yaml)", format)
			}
			sess, err := openSession(cmd, g, &src, args)
			if err != nil {
				return err
			}
			return render.Dump(cmd.OutOrStdout(), sess.Documents(), f)
		},
	}

	src.register(cmd.Flags())
	cmd.Flags().StringVarP(&format, "format", "o", "json", "Output format: json or yaml")
	return cmd
}
