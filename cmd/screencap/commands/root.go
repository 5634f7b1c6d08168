package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/xurtis/screencap/internal/capture"
	"github.com/xurtis/screencap/internal/config"
	"github.com/xurtis/screencap/internal/logger"
)

var (
	cfgFile    string
	regionFlag string
	modeFlag   string
	rateFlag   int

	configMgr *config.Manager

	rootCmd = &cobra.Command{
		Use:   "screencap",
		Short: "screencap - screen capture via external tools",
		Long: `screencap records the screen as an image or video by delegating to
external tools: gnome-screenshot for images, ffmpeg for video, and the
X11 introspection utilities for geometry.

Codecs are negotiated against what the local ffmpeg build actually
supports, preferring hardware encoders when available.`,
		Example: `  # Capture the whole screen as an image
  screencap

  # Capture the active window
  screencap -r window

  # Record a video of the screen at 60 fps
  screencap -m video -R 60`,
		RunE: runCapture,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/screencap/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	// Capture flags
	rootCmd.Flags().StringVarP(&regionFlag, "region", "r", "screen", "the region to capture (screen, window, select)")
	rootCmd.Flags().StringVarP(&modeFlag, "mode", "m", "image", "whether to capture an image or video")
	rootCmd.Flags().IntVarP(&rateFlag, "rate", "R", 0, "framerate (fps) when capturing video")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// loadConfig initialises the config manager and the logger; shared by every
// command.
func loadConfig() (*config.Config, error) {
	mgr, err := config.NewManager(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize config manager: %w", err)
	}
	configMgr = mgr

	cfg := mgr.Get()
	level := cfg.LogLevel
	if viper.GetString("log_level") != "" {
		level = viper.GetString("log_level")
	}
	logger.Init(level, true)

	return cfg, nil
}

func runCapture(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	mode, err := capture.ParseMode(modeFlag)
	if err != nil {
		return err
	}
	region, err := capture.ParseRegion(regionFlag)
	if err != nil {
		return err
	}

	capturer, err := capture.New(cfg)
	if err != nil {
		return err
	}
	defer capturer.Close()

	path, err := capturer.Capture(capture.Options{
		Mode:      mode,
		Region:    region,
		Framerate: rateFlag,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Capture saved to %q\n", path)
	return nil
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
