package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveBuildParams(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "build.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("output: out\nexport_var: myParser\n"), 0o644))

	t.Run("defaults", func(t *testing.T) {
		params, err := resolveBuildParams(buildParams{})
		require.NoError(t, err)
		assert.Equal(t, "parser", params.exportVar)
		assert.Equal(t, "", params.output)
	})

	t.Run("from config file", func(t *testing.T) {
		params, err := resolveBuildParams(buildParams{configFile: cfgPath})
		require.NoError(t, err)
		assert.Equal(t, "myParser", params.exportVar)
		assert.Equal(t, "out", params.output)
	})

	t.Run("flags win over config", func(t *testing.T) {
		params, err := resolveBuildParams(buildParams{
			configFile: cfgPath,
			exportVar:  "flagParser",
		})
		require.NoError(t, err)
		assert.Equal(t, "flagParser", params.exportVar)
		assert.Equal(t, "out", params.output)
	})

	t.Run("missing config file", func(t *testing.T) {
		_, err := resolveBuildParams(buildParams{configFile: "no-such-file.yaml"})
		assert.Error(t, err)
	})

	t.Run("malformed config file", func(t *testing.T) {
		badPath := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(badPath, []byte("output: [unclosed"), 0o644))
		_, err := resolveBuildParams(buildParams{configFile: badPath})
		assert.Error(t, err)
	})
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("grammars", "calc.js"), outputPath(filepath.Join("grammars", "calc.peg"), ""))
	assert.Equal(t, filepath.Join("dist", "calc.js"), outputPath(filepath.Join("grammars", "calc.peg"), "dist"))
	assert.Equal(t, "calc.js", outputPath("calc", ""))
}

func TestExpandGlobs(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(sub, 0o755))
	for _, name := range []string{"a.peg", "b.peg", filepath.Join("nested", "c.peg"), "d.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(`start = "x"`), 0o644))
	}

	paths, err := expandGlobs([]string{filepath.Join(dir, "**", "*.peg")})
	require.NoError(t, err)
	assert.Len(t, paths, 3)

	// non-pattern arguments pass through even if they don't exist
	paths, err = expandGlobs([]string{"plain.peg"})
	require.NoError(t, err)
	assert.Equal(t, []string{"plain.peg"}, paths)
}

func TestRunBuildWritesParser(t *testing.T) {
	dir := t.TempDir()
	grammar := filepath.Join(dir, "calc.peg")
	require.NoError(t, os.WriteFile(grammar, []byte(`start = [0-9]+`), 0o644))

	prev := buildArgs
	t.Cleanup(func() { buildArgs = prev })
	buildArgs = buildParams{}

	require.NoError(t, runBuild(t.Context(), []string{grammar}))

	out, err := os.ReadFile(filepath.Join(dir, "calc.js"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "var parser = (function(){")
	assert.Contains(t, string(out), "function parse_start() {")
}
