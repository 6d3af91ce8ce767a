package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/loom/internal/config"
)

func quietConfig() *config.Config {
	cfg := config.New()
	cfg.Log.Level = "error"
	return cfg
}

func TestRunDemo(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runDemo(&buf, quietConfig(), "counter", []string{"inc", "inc", "dec"}))

	out := buf.String()
	assert.Contains(t, out, "# inc\n")
	assert.Contains(t, out, "# dec\n")
	sections := strings.Split(out, "\n# ")
	require.Len(t, sections, 4)
	assert.Contains(t, sections[0], "<span>\n    0\n  </span>")
	assert.Contains(t, sections[2], "<span>\n    2\n  </span>")
	assert.Contains(t, sections[3], "<span>\n    1\n  </span>")
}

func TestRunDemoErrors(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, runDemo(&buf, quietConfig(), "nope", nil))

	err := runDemo(&buf, quietConfig(), "counter", []string{"missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "E107")
}

func TestRunTodoPayload(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runDemo(&buf, quietConfig(), "todo", []string{"add=buy milk"}))
	assert.Contains(t, buf.String(), "buy milk")
}

func TestBenchReusesFibers(t *testing.T) {
	cfg := quietConfig()
	cfg.Bench.Items = 20
	cfg.Bench.Iterations = 10

	res, err := bench(cfg)
	require.NoError(t, err)
	// ul plus one li and one text per item, all from the first render.
	assert.Equal(t, uint64(1+2*20), res.Mounted)
	assert.Equal(t, uint64(11*(1+2*20)), res.Visited)

	families, err := res.Registry.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)

	var buf bytes.Buffer
	require.NoError(t, runBench(&buf, cfg))
	assert.Contains(t, buf.String(), "mounted:    41")
	assert.Contains(t, buf.String(), "counters:\n")
	assert.Contains(t, buf.String(), `  loom_bench_fibers_mounted_total{items="20",kind="Host"} 21`)
	assert.Contains(t, buf.String(), `  loom_bench_fibers_mounted_total{items="20",kind="Text"} 20`)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("bench:\n  items: 3\n"), 0644))

	cfg, err := loadConfig(&globalFlags{configPath: path, logLevel: "debug"})
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Bench.Items)
	assert.Equal(t, "debug", cfg.Log.Level)

	_, err = loadConfig(&globalFlags{configPath: path, logLevel: "loud"})
	assert.Error(t, err)

	_, err = loadConfig(&globalFlags{configPath: filepath.Join(dir, "missing.yaml")})
	assert.Error(t, err)
}

func TestInitWritesConfig(t *testing.T) {
	dir := t.TempDir()

	cmd := initCmd()
	cmd.SetArgs([]string{dir})
	require.NoError(t, cmd.Execute())

	cfg, err := config.LoadFile(filepath.Join(dir, config.ConfigFileName))
	require.NoError(t, err)
	assert.Equal(t, config.New().Render, cfg.Render)

	cmd = initCmd()
	cmd.SetArgs([]string{dir})
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	assert.Error(t, cmd.Execute())

	cmd = initCmd()
	cmd.SetArgs([]string{"--force", dir})
	require.NoError(t, cmd.Execute())
}

func TestVersion(t *testing.T) {
	var buf bytes.Buffer
	cmd := versionCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--short"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, version+"\n", buf.String())

	buf.Reset()
	cmd = versionCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Render limit: 1000")
	assert.Contains(t, buf.String(), "Config file:  loom.yaml")
}
