package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `
log_level: debug
tags: ["www", "code", "chat"]
theme:
  gap: 6
  border_width: 3
  border_focused: 0x80FF0000
rules:
  - class: mpv
    floating: true
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, []string{"www", "code", "chat"}, cfg.Tags)
	require.Equal(t, uint16(6), cfg.Theme.Gap)
	require.Equal(t, uint16(3), cfg.Theme.BorderWidth)
	// colours premultiply on ingest: 0x80FF0000 at half alpha
	require.Equal(t, uint32(0x80800000), cfg.Theme.BorderFocused)
	// unset keys keep their defaults
	require.Equal(t, int16(4), cfg.Theme.MarginLeft)

	require.Len(t, cfg.Rules, 1)
	require.NotNil(t, cfg.Rules[0].Class)
	require.Equal(t, "mpv", *cfg.Rules[0].Class)
	require.NotNil(t, cfg.Rules[0].Floating)
	require.True(t, *cfg.Rules[0].Floating)
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	_ = cfg
}

func TestDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, uint16(4), cfg.Theme.Gap)
	require.Equal(t, int16(4), cfg.Theme.MarginTop)
	require.Len(t, cfg.Tags, 10)
	require.Equal(t, "info", cfg.LogLevel)
}
