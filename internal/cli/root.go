// Package cli provides the command-line interface for tabula.
package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bnema/tabula/internal/app"
	"github.com/bnema/tabula/internal/config"
	"github.com/bnema/tabula/internal/logging"
	"github.com/bnema/tabula/internal/output"
	"github.com/bnema/tabula/internal/surface"
	"github.com/bnema/tabula/internal/wayland"
)

// NewRootCmd creates the root command for tabula.
func NewRootCmd(version, commit, buildDate string) *cobra.Command {
	var (
		configFile string
		colorFlag  string
		imageFlag  string
		focusFlag  string
		logLevel   string
		logFormat  string
	)

	rootCmd := &cobra.Command{
		Use:   "tabula",
		Short: "A wallpaper daemon for wlroots compositors",
		Long: `Paints a solid color or an image on the background layer of every
output, keeping the wallpaper in step with output hotplug, resize,
scale and transform changes. Images are cover-fitted around a focus
point instead of the geometric center.`,
		Args:          cobra.NoArgs,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}

			// Flags beat config file and environment.
			if cmd.Flags().Changed("color") {
				cfg.Wallpaper.Color = colorFlag
				cfg.Wallpaper.Image = ""
			}
			if cmd.Flags().Changed("image") {
				cfg.Wallpaper.Image = imageFlag
				if !cmd.Flags().Changed("color") {
					cfg.Wallpaper.Color = ""
				}
			}
			if cmd.Flags().Changed("focus") {
				cfg.Wallpaper.Focus = focusFlag
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Logging.Level = logLevel
			}
			if cmd.Flags().Changed("log-format") {
				cfg.Logging.Format = logFormat
			}

			log := logging.New(logging.Config{
				Level:      logging.ParseLevel(cfg.Logging.Level),
				Format:     cfg.Logging.Format,
				TimeFormat: logging.DefaultConfig().TimeFormat,
			})
			log.Info().
				Str("version", version).
				Str("commit", commit).
				Str("build_date", buildDate).
				Msg("starting tabula")

			return run(cfg, log)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&configFile, "config", "", "config file (default: $XDG_CONFIG_HOME/tabula/config.toml)")
	flags.StringVarP(&colorFlag, "color", "c", "", "solid background color as 6-digit hex RGB")
	flags.StringVarP(&imageFlag, "image", "i", "", "path to the wallpaper image")
	flags.StringVarP(&focusFlag, "focus", "f", "", "image focus point as \"x+y\", both in [0,1] (default: centered)")
	flags.StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	flags.StringVar(&logFormat, "log-format", "", "log format: console, json")
	rootCmd.MarkFlagsMutuallyExclusive("color", "image")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("tabula %s\n", version)
			fmt.Printf("commit: %s\n", commit)
			fmt.Printf("built: %s\n", buildDate)
		},
	}
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}

// run connects to the compositor and drives the event loop until the
// connection ends. A shutdown signal closes the connection, which run maps
// to a clean exit.
func run(cfg *config.Config, log zerolog.Logger) error {
	wallpaper, err := cfg.Resolve(log)
	if err != nil {
		return err
	}

	session, err := wayland.Connect(log)
	if err != nil {
		return err
	}

	reg := output.NewRegistry(log)
	mgr := surface.NewManager(session, wallpaper.Source, wallpaper.Focus, log)
	loop := app.NewLoop(reg, mgr, log)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		signal.Stop(sigCh)
		log.Info().Str("signal", sig.String()).Msg("received interrupt, quitting")
		_ = session.Close()
	}()

	err = loop.Run(session)
	loop.Close()
	if session.Closing() {
		log.Info().Msg("shutdown complete")
		return nil
	}
	return fmt.Errorf("compositor connection lost: %w", err)
}
