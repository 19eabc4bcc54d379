package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdesaulniers/vscode-teal/internal/config"
	"github.com/pdesaulniers/vscode-teal/internal/parser"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDumpSexp(t *testing.T) {
	path := writeFile(t, "main.tl", "print(abc.def)\n")

	out, err := execute(t, "dump", "--sexp", path)
	require.NoError(t, err)
	assert.Equal(t,
		"(chunk (function_call called_object: (identifier) arguments: (arguments (index object: (identifier) key: (identifier)))))\n",
		out)
}

func TestDumpTree(t *testing.T) {
	path := writeFile(t, "main.tl", "abc.\n")

	out, err := execute(t, "dump", "--plain", path)
	require.NoError(t, err)
	assert.Equal(t, "chunk [0:0 - 1:0]\n  ERROR [0:0 - 0:4]\n    identifier [0:0 - 0:3] \"abc\"\n", out)
}

func TestDumpLuaBackend(t *testing.T) {
	path := writeFile(t, "init.lua", "print(x)\n")

	out, err := execute(t, "dump", "--sexp", "--parser", parser.BackendLua, path)
	require.NoError(t, err)
	assert.Contains(t, out, "(program (function_call called_object: (identifier) arguments: (arguments")
}

func TestDumpMissingFile(t *testing.T) {
	_, err := execute(t, "dump", filepath.Join(t.TempDir(), "absent.tl"))
	assert.Error(t, err)
}

func TestParts(t *testing.T) {
	path := writeFile(t, "main.tl", "print(abc.def.gh, 1)\n")

	out, err := execute(t, "--plain", "parts", path, "1", "16")
	require.NoError(t, err)
	assert.Equal(t, ""+
		"node   identifier\n"+
		"root   \"abc.def.gh\" (ancestor)\n"+
		"parts  abc.def\n"+
		"call   print argument 0\n", out)
}

func TestPartsRejectsBadPosition(t *testing.T) {
	path := writeFile(t, "main.tl", "x")

	_, err := execute(t, "parts", path, "0", "1")
	assert.Error(t, err)
	_, err = execute(t, "parts", path, "1", "col")
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, "teal.toml", "parser = \"lua\"\nlog_level = 1\n")

	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--config", path, "-vvv"}))
	cfg, err := loadConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, parser.BackendLua, cfg.Parser)
	assert.Equal(t, 3, cfg.LogLevel)

	cmd = newRootCmd()
	require.NoError(t, cmd.ParseFlags(nil))
	cfg, err = loadConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	cmd = newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--parser", "python"}))
	_, err = loadConfig(cmd)
	assert.ErrorIs(t, err, parser.ErrUnknownBackend)
}
