package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"library-catalog/library"
	"library-catalog/script"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type options struct {
	logLevel         string
	waitlistCapacity int
	output           string
}

func (o *options) newCatalog() *library.LibraryCatalog {
	cfg := library.DefaultConfig()
	cfg.WaitlistCapacity = o.waitlistCapacity
	return library.NewLibraryCatalog(cfg)
}

func main() {
	log.SetLevel(log.WarnLevel)
	log.SetOutput(os.Stderr)

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "library-catalog",
		Short: "In-memory library catalog driven by command scripts",
		Long: `library-catalog keeps books in a red-black tree, queues reservations per
book, and counts colour flips. With no subcommand it reads a script from
stdin, or opens the console when stdin is a terminal.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setLogLevel(opts.logLevel)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if term.IsTerminal(int(os.Stdin.Fd())) {
				return runConsole(opts.newCatalog())
			}
			return script.NewRunner(opts.newCatalog(), os.Stdout).Run(os.Stdin)
		},
	}
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().IntVar(&opts.waitlistCapacity, "waitlist-capacity", library.DefaultWaitlistCapacity,
		"maximum pending reservations per book")

	run := &cobra.Command{
		Use:   "run <script>",
		Short: "Execute a command script and write the results to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := opts.output
			if out == "" {
				out = outputPathFor(args[0])
			}
			return runScriptFile(opts.newCatalog(), args[0], out)
		},
	}
	run.Flags().StringVarP(&opts.output, "output", "o", "",
		`output file (default "<script>_output_file.txt", "-" for stdout)`)

	repl := &cobra.Command{
		Use:   "repl",
		Short: "Interactive console",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsole(opts.newCatalog())
		},
	}

	root.AddCommand(run, repl)
	return root
}

// outputPathFor maps "dir/input.txt" to "dir/input_output_file.txt".
func outputPathFor(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + "_output_file.txt"
}

// runScriptFile refuses a script whose fingerprint header does not match
// its contents.
func runScriptFile(lc *library.LibraryCatalog, input, output string) error {
	data, err := os.ReadFile(filepath.Clean(input))
	if err != nil {
		return fmt.Errorf("open script: %w", err)
	}
	if err := script.VerifyFingerprint(data); err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}

	if output == "-" {
		return script.NewRunner(lc, os.Stdout).Run(bytes.NewReader(data))
	}

	out, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := script.NewRunner(lc, out).Run(bytes.NewReader(data)); err != nil {
		out.Close()
		return err
	}
	log.Infof("results written to %s", output)
	return out.Close()
}

func setLogLevel(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q", level)
	}
	log.SetLevel(lvl)
	return nil
}
