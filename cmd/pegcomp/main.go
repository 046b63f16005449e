// Command pegcomp compiles parsing expression grammars into
// JavaScript packrat parsers.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCommand = &cobra.Command{
	Use:   "pegcomp",
	Short: "Compile parsing expression grammars into parsers",
	Long: `Compile parsing expression grammars into parsers.

Each input grammar is compiled into a self-contained JavaScript parser
that memoizes rule results (packrat parsing) and reports syntax errors
with line/column positions and the set of expected inputs.`,
}

func init() {
	rootCommand.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCommand.AddCommand(buildCommand)
	rootCommand.AddCommand(checkCommand)
}

var verbose bool

func setupLogging() {
	logrus.SetOutput(os.Stderr)
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.WarnLevel)
	}
}

func main() {
	if err := rootCommand.Execute(); err != nil {
		os.Exit(1)
	}
}
