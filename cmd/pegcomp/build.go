package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pegcomp/pegcomp"
	"github.com/pegcomp/pegcomp/reporter"
)

type buildParams struct {
	output     string
	exportVar  string
	configFile string
}

// buildConfig is the YAML configuration file format. Flags given on
// the command line take precedence over values from the file.
type buildConfig struct {
	Output    string `yaml:"output"`
	ExportVar string `yaml:"export_var"`
}

var buildArgs = buildParams{}

var buildCommand = &cobra.Command{
	Use:   "build [grammar [...]]",
	Short: "Compile grammars into parser files",
	Long: `Compile grammars into parser files.

Each argument is a path or a glob pattern (** is supported) naming
grammar files. For every grammar, a JavaScript file containing the
generated parser is written next to it, with the extension replaced by
".js", or into the directory named by --output.

The generated parser is assigned to the variable named by
--export-var:

    var parser = (function(){ ... })();`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		setupLogging()
		return runBuild(cmd.Context(), args)
	},
}

func init() {
	buildCommand.Flags().StringVarP(&buildArgs.output, "output", "o", "", "directory (or single output file) for generated parsers")
	buildCommand.Flags().StringVarP(&buildArgs.exportVar, "export-var", "e", "", `name of the variable the parser is assigned to (default "parser")`)
	buildCommand.Flags().StringVarP(&buildArgs.configFile, "config", "c", "", "YAML file with build settings")
}

func runBuild(ctx context.Context, args []string) error {
	params, err := resolveBuildParams(buildArgs)
	if err != nil {
		return err
	}

	paths, err := expandGlobs(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no grammar files matched")
	}
	logrus.WithField("count", len(paths)).Debug("compiling grammars")

	compiler := pegcomp.Compiler{
		Resolver: &pegcomp.SourceResolver{},
		Reporter: reporter.NewReporter(nil, warnToLog),
	}
	results, err := compiler.Compile(ctx, paths...)
	if err != nil {
		return err
	}

	if isSingleFileOutput(params.output, len(results)) {
		return writeParser(params.output, results[0].Source, params.exportVar)
	}
	for _, result := range results {
		out := outputPath(result.Name, params.output)
		if err := writeParser(out, result.Source, params.exportVar); err != nil {
			return err
		}
		logrus.WithFields(logrus.Fields{
			"grammar": result.Name,
			"output":  out,
		}).Debug("wrote parser")
	}
	return nil
}

func resolveBuildParams(p buildParams) (buildParams, error) {
	if p.configFile != "" {
		contents, err := os.ReadFile(p.configFile)
		if err != nil {
			return p, err
		}
		var cfg buildConfig
		if err := yaml.Unmarshal(contents, &cfg); err != nil {
			return p, fmt.Errorf("config %s: %w", p.configFile, err)
		}
		if p.output == "" {
			p.output = cfg.Output
		}
		if p.exportVar == "" {
			p.exportVar = cfg.ExportVar
		}
	}
	if p.exportVar == "" {
		p.exportVar = "parser"
	}
	return p, nil
}

func expandGlobs(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[{") {
			paths = append(paths, arg)
			continue
		}
		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		paths = append(paths, matches...)
	}
	return paths, nil
}

// isSingleFileOutput reports whether --output names a file to write a
// single compiled parser to, as opposed to a directory to fill.
func isSingleFileOutput(output string, n int) bool {
	if output == "" || n != 1 {
		return false
	}
	if info, err := os.Stat(output); err == nil && info.IsDir() {
		return false
	}
	return true
}

func outputPath(grammarPath, outputDir string) string {
	base := strings.TrimSuffix(filepath.Base(grammarPath), filepath.Ext(grammarPath)) + ".js"
	if outputDir == "" {
		return filepath.Join(filepath.Dir(grammarPath), base)
	}
	return filepath.Join(outputDir, base)
}

func writeParser(path, source, exportVar string) error {
	return os.WriteFile(path, []byte("var "+exportVar+" = "+source+";\n"), 0o644)
}

func warnToLog(err reporter.ErrorWithPos) {
	logrus.WithField("pos", err.GetPosition().String()).Warn(err.Unwrap().Error())
}
