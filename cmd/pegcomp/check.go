package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pegcomp/pegcomp/parser"
	"github.com/pegcomp/pegcomp/reporter"
)

var checkCommand = &cobra.Command{
	Use:   "check [grammar [...]]",
	Short: "Parse and validate grammars without generating parsers",
	Long: `Parse and validate grammars without generating parsers.

All problems found are printed, one per line, with their source
positions. The exit code is non-zero if any grammar has errors.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		setupLogging()
		return runCheck(args)
	},
}

func runCheck(args []string) error {
	paths, err := expandGlobs(args)
	if err != nil {
		return err
	}

	failed := false
	for _, path := range paths {
		// keep reporting past the first error in each grammar, but
		// don't let one bad grammar hide problems in the others
		rep := reporter.NewReporter(
			func(errWithPos reporter.ErrorWithPos) error {
				failed = true
				fmt.Fprintln(os.Stderr, errWithPos.Error())
				return nil
			},
			func(errWithPos reporter.ErrorWithPos) {
				fmt.Fprintf(os.Stderr, "%s: warning: %v\n", errWithPos.GetPosition(), errWithPos.Unwrap())
			},
		)
		handler := reporter.NewHandler(rep)

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		grammar, err := parser.Parse(path, f, handler)
		_ = f.Close()
		if err != nil {
			continue
		}
		_ = parser.Validate(grammar, handler)
	}

	if failed {
		return fmt.Errorf("one or more grammars have errors")
	}
	return nil
}
