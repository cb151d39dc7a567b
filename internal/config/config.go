// Package config loads the daemon configuration: the theme, the initial
// tag set, and startup window rules.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/cwm-x11/cwm/internal/ipc"
)

// Theme holds every visual parameter the window manager applies. Colours
// are premultiplied ARGB.
type Theme struct {
	Gap             uint16
	MarginLeft      int16
	MarginTop       int16
	MarginRight     int16
	MarginBottom    int16
	BorderWidth     uint16
	BorderFocused   uint32
	BorderUnfocused uint32
	WindowWidth     uint16
	WindowHeight    uint16
	WindowMinWidth  uint16
	WindowMinHeight uint16
}

// Config is the daemon's startup configuration.
type Config struct {
	Theme    Theme
	Tags     []string
	Rules    []ipc.Rule
	LogLevel string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("tags", []string{"I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX", "X"})
	v.SetDefault("theme.gap", 4)
	v.SetDefault("theme.margin_left", 4)
	v.SetDefault("theme.margin_top", 4)
	v.SetDefault("theme.margin_right", 4)
	v.SetDefault("theme.margin_bottom", 4)
	v.SetDefault("theme.border_width", 2)
	v.SetDefault("theme.border_focused", 0xFF53A6E1)
	v.SetDefault("theme.border_unfocused", 0xFF2B3339)
	v.SetDefault("theme.window_width", 600)
	v.SetDefault("theme.window_height", 400)
	v.SetDefault("theme.window_min_width", 60)
	v.SetDefault("theme.window_min_height", 40)
}

// Load reads the configuration. When path is empty the default search
// locations are used ($HOME/.config/cwm/config.yaml, then /etc/cwm); if
// no file is found there the defaults apply. An explicit path that cannot
// be read is an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.config/cwm")
		v.AddConfigPath("/etc/cwm")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && path != "" {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		Theme: Theme{
			Gap:             uint16(v.GetUint32("theme.gap")),
			MarginLeft:      int16(v.GetInt32("theme.margin_left")),
			MarginTop:       int16(v.GetInt32("theme.margin_top")),
			MarginRight:     int16(v.GetInt32("theme.margin_right")),
			MarginBottom:    int16(v.GetInt32("theme.margin_bottom")),
			BorderWidth:     uint16(v.GetUint32("theme.border_width")),
			BorderFocused:   ipc.Premultiply(v.GetUint32("theme.border_focused")),
			BorderUnfocused: ipc.Premultiply(v.GetUint32("theme.border_unfocused")),
			WindowWidth:     uint16(v.GetUint32("theme.window_width")),
			WindowHeight:    uint16(v.GetUint32("theme.window_height")),
			WindowMinWidth:  uint16(v.GetUint32("theme.window_min_width")),
			WindowMinHeight: uint16(v.GetUint32("theme.window_min_height")),
		},
		Tags:     v.GetStringSlice("tags"),
		LogLevel: v.GetString("log_level"),
	}

	var rules []ipc.Rule
	if err := v.UnmarshalKey("rules", &rules); err != nil {
		return nil, fmt.Errorf("failed to parse rules: %w", err)
	}
	cfg.Rules = rules

	return cfg, nil
}
