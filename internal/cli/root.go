// Package cli provides the cobra command tree for runlog.
package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/five82/runlog/internal/app"
)

// globalOptions hold the persistent flags shared by every subcommand.
type globalOptions struct {
	ConfigPath string
	PrefsPath  string
	LogLevel   string
}

// sourceFlags name the logs a command reads in addition to its positional
// arguments.
type sourceFlags struct {
	Glob string
	Dir  string
	Repo string
	Jobs []int64
	Run  int64
}

func (f *sourceFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.Glob, "glob", "", "Read every file matching a doublestar pattern (e.g. '**/*.txt')")
	fs.StringVar(&f.Dir, "dir", "", "Root directory for --glob (default: working directory)")
	fs.StringVar(&f.Repo, "repo", "", "GitHub repository as owner/name")
	fs.Int64SliceVar(&f.Jobs, "job", nil, "GitHub Actions job ID (repeatable)")
	fs.Int64Var(&f.Run, "run", 0, "GitHub Actions workflow run ID; loads every job of the run")
}

func (f *sourceFlags) spec(args []string) app.SourceSpec {
	return app.SourceSpec{
		Paths: args,
		Dir:   f.Dir,
		Glob:  f.Glob,
		Repo:  f.Repo,
		Jobs:  f.Jobs,
		Run:   f.Run,
	}
}

// NewRootCommand creates the root command with every subcommand attached.
func NewRootCommand(version string) *cobra.Command {
	var opts globalOptions

	root := &cobra.Command{
		Use:   "runlog",
		Short: "Read GitHub Actions job logs in the terminal",
		Long: `runlog parses CI job logs (colors, ##[group] steps, ##[error] markers)
and shows them in an interactive viewer, or prints them to stdout.

Sources are file paths, "-" for stdin, a --glob over an unpacked log
archive, or GitHub jobs via --repo with --job or --run.

Examples:
  # Browse a downloaded log
  runlog view job.txt

  # Print only the second step, with line numbers
  runlog print --step 2 --line-numbers job.txt

  # Watch a running job
  runlog view --follow --repo owner/name --job 123456789

  # Outline every step of an unpacked log archive
  runlog sections --dir logs --glob '**/*.txt'`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "Config file (default: ~/.config/runlog/config.toml)")
	root.PersistentFlags().StringVar(&opts.PrefsPath, "prefs", "", "Preferences file (default: ~/.config/runlog/prefs.toml)")
	root.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "Log level: trace, debug, info, warn or error")

	root.AddCommand(
		newViewCommand(&opts),
		newPrintCommand(&opts),
		newSectionsCommand(&opts),
		newDumpCommand(&opts),
	)
	return root
}

// appOptions builds the app options for a command invocation.
func appOptions(cmd *cobra.Command, g *globalOptions, src *sourceFlags, args []string) app.Options {
	return app.Options{
		ConfigPath: g.ConfigPath,
		PrefsPath:  g.PrefsPath,
		LogLevel:   g.LogLevel,
		Sources:    src.spec(args),
		Stdin:      cmd.InOrStdin(),
		LogOutput:  cmd.ErrOrStderr(),
	}
}

// openSession loads every source named on the command line.
func openSession(cmd *cobra.Command, g *globalOptions, src *sourceFlags, args []string) (*app.Session, error) {
	return app.Open(cmd.Context(), appOptions(cmd, g, src, args))
}
