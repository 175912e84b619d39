package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	main "github.com/fwojciec/specsheet/cmd/specsheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var expectedCommands = []string{"process", "query", "show", "coverage"}

func TestCLI_HelpShowsAllCommands(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	parser, err := kong.New(cli,
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Vars{"db": "products.sqlite", "jsonl": ""},
	)
	require.NoError(t, err)

	_, _ = parser.Parse([]string{"--help"})

	helpOutput := stdout.String()
	for _, cmd := range expectedCommands {
		assert.Contains(t, helpOutput, cmd, "Help should mention %s command", cmd)
	}
}

func TestMain_Run(t *testing.T) {
	t.Parallel()

	newMain := func(t *testing.T) *main.Main {
		t.Helper()
		m := main.NewMain()
		m.DBPath = filepath.Join(t.TempDir(), "products.sqlite")
		m.JSONLPath = ""
		return m
	}

	t.Run("help shows kong output", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := newMain(t).Run(context.Background(), []string{"--help"}, stdout, stderr)

		require.NoError(t, err)
		for _, cmd := range expectedCommands {
			assert.Contains(t, stdout.String(), cmd)
		}
	})

	t.Run("returns error without command", func(t *testing.T) {
		t.Parallel()

		err := newMain(t).Run(context.Background(), nil, &bytes.Buffer{}, &bytes.Buffer{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no command specified")
	})

	t.Run("processes empty directory and writes empty JSONL", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		out := filepath.Join(t.TempDir(), "products.jsonl")
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := newMain(t).Run(context.Background(), []string{"process", dir, "--jsonl", out}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Found 0 PDFs")
		assert.Contains(t, stdout.String(), "Processed 0 of 0 PDFs")
		data, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Empty(t, data)
	})

	t.Run("reports unreadable PDF and continues", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.pdf"), []byte("not a pdf"), 0o644))
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := newMain(t).Run(context.Background(), []string{"process", dir}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stderr.String(), "broken.pdf")
		assert.Contains(t, stdout.String(), "failed 1")
	})

	t.Run("returns error for missing directory", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}

		err := newMain(t).Run(context.Background(), []string{"process", "/nonexistent/dir"}, &bytes.Buffer{}, stderr)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "is not a directory")
	})

	t.Run("queries use the database given by --db", func(t *testing.T) {
		t.Parallel()

		db := filepath.Join(t.TempDir(), "other.sqlite")
		stdout := &bytes.Buffer{}

		err := newMain(t).Run(context.Background(), []string{"--db", db, "query", "model", "99 0430 14 04"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No results")
		_, statErr := os.Stat(db)
		assert.NoError(t, statErr)
	})

	t.Run("rejects unsupported spec operator", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}

		err := newMain(t).Run(context.Background(),
			[]string{"query", "spec", "rated_voltage_v", "--op", "~", "--value", "24"}, &bytes.Buffer{}, stderr)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "unsupported operator")
	})

	t.Run("coverage reports empty database", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}

		err := newMain(t).Run(context.Background(), []string{"coverage"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No specs stored")
	})

	t.Run("show returns not found for unknown ID", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}

		err := newMain(t).Run(context.Background(), []string{"show", "missing"}, &bytes.Buffer{}, stderr)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "product not found")
	})
}

func TestLoadEnv(t *testing.T) {
	t.Parallel()

	t.Run("ignores missing file", func(t *testing.T) {
		t.Parallel()

		err := main.LoadEnv(filepath.Join(t.TempDir(), ".env"))

		assert.NoError(t, err)
	})

	t.Run("reports malformed file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("SPECSHEET_DB='unterminated\n"), 0644))

		err := main.LoadEnv(path)

		assert.ErrorContains(t, err, "load env")
	})

	t.Run("reports unreadable path", func(t *testing.T) {
		t.Parallel()

		err := main.LoadEnv(t.TempDir())

		assert.ErrorContains(t, err, "load env")
	})
}
