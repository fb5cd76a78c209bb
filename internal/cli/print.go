package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/runlog/internal/logparse"
	"github.com/five82/runlog/internal/logtail"
	"github.com/five82/runlog/internal/render"
)

type printOptions struct {
	Color       string
	Timestamps  bool
	LineNumbers bool
	Step        int
	Tail        int
}

func newPrintCommand(g *globalOptions) *cobra.Command {
	var (
		src  sourceFlags
		opts printOptions
	)

	cmd := &cobra.Command{
		Use:   "print [source...]",
		Short: "Print logs with colors and step markers",
		Long: `Print renders each log to stdout: styles are kept, group headers are
marked and ##[error]/##[warning] lines are labelled. Several sources are
printed one after another under a "==> name <==" header.

Colors are written only to a terminal unless --color=always.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrint(cmd, g, &src, args, opts)
		},
	}

	src.register(cmd.Flags())
	cmd.Flags().StringVar(&opts.Color, "color", "auto", "Colorize output: auto, always or never")
	cmd.Flags().BoolVar(&opts.Timestamps, "timestamps", false, "Keep the timestamp at the start of each line")
	cmd.Flags().BoolVarP(&opts.LineNumbers, "line-numbers", "n", false, "Prefix lines with their line number")
	cmd.Flags().IntVar(&opts.Step, "step", 0, "Print only step N (1-based)")
	cmd.Flags().IntVar(&opts.Tail, "tail", 0, "Print only the last N lines")
	return cmd
}

func runPrint(cmd *cobra.Command, g *globalOptions, src *sourceFlags, args []string, opts printOptions) error {
	mode, err := render.ParseColorMode(opts.Color)
	if err != nil {
		return err
	}
	if opts.Step < 0 {
		return fmt.Errorf("--step must be positive, got %d", opts.Step)
	}

	var docs []*logparse.Document
	if path, ok := tailFile(src, args, opts); ok {
		doc, err := readTail(path, opts.Tail)
		if err != nil {
			return err
		}
		docs = []*logparse.Document{doc}
	} else {
		sess, err := openSession(cmd, g, src, args)
		if err != nil {
			return err
		}
		docs = sess.Documents()
	}

	out := cmd.OutOrStdout()
	r := render.NewRenderer(out, mode)
	painter := render.NewPainter(r, render.ANSIPalette(), render.DefaultKindStyles(r))
	header := r.NewStyle().Bold(true)

	for i, doc := range docs {
		if len(docs) > 1 {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintln(out, header.Render("==> "+doc.Name+" <=="))
		}
		err := render.Print(out, painter, doc, render.PrintOptions{
			Timestamps:  opts.Timestamps,
			LineNumbers: opts.LineNumbers,
			Step:        opts.Step,
			Tail:        opts.Tail,
		})
		if err != nil {
			return fmt.Errorf("%s: %w", doc.Name, err)
		}
	}
	return nil
}

// tailFile reports whether the command reads just the end of one local
// file, which can be done without loading all of it. Line numbers and
// steps need the whole document.
func tailFile(src *sourceFlags, args []string, opts printOptions) (string, bool) {
	if opts.Tail <= 0 || opts.Step > 0 || opts.LineNumbers {
		return "", false
	}
	if len(args) != 1 || args[0] == "-" {
		return "", false
	}
	if src.Glob != "" || len(src.Jobs) > 0 || src.Run != 0 {
		return "", false
	}
	return args[0], true
}

// readTail parses the last n lines of path. Styles opened before the cut
// are lost.
func readTail(path string, n int) (*logparse.Document, error) {
	lines, err := logtail.Read(path, n)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return logparse.Parse(logparse.Source{
		ID:   "file:" + abs,
		Name: filepath.Base(path),
		Text: strings.Join(lines, "\n"),
	}), nil
}

// printDocuments is the non-interactive fallback of view.
func printDocuments(cmd *cobra.Command, g *globalOptions, src *sourceFlags, args []string, step int) error {
	return runPrint(cmd, g, src, args, printOptions{Color: string(render.ColorAuto), Step: step})
}
