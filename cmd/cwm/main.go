package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cwm-x11/cwm/internal/config"
	"github.com/cwm-x11/cwm/internal/logger"
	"github.com/cwm-x11/cwm/internal/wm"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "cwm",
		Short: "cwm - a tag-based tiling window manager for X11",
		Long: `cwm is a dynamic tiling window manager. Each monitor displays one
tag; every tag arranges its clients in a binary space partition. All
control happens over a Unix socket, driven by cwmctl or an external
hotkey daemon.`,
		RunE: run,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/cwm/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("pretty", false, "human-readable log output")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("pretty", rootCmd.PersistentFlags().Lookup("pretty"))
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if lvl := viper.GetString("log_level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	logger.Init(cfg.LogLevel, viper.GetBool("pretty"))
	log := logger.WithComponent("main")

	dpy, err := wm.NewX11Display()
	if err != nil {
		return err
	}
	defer dpy.Close()

	manager, err := wm.New(dpy, cfg)
	if err != nil {
		return err
	}

	log.Info().Msg("cwm running")
	return manager.Run()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
