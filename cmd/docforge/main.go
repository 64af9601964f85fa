// Package main is the entry point for the docforge CLI.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/CageChen/docforge/internal/config"
	"github.com/CageChen/docforge/internal/style"
)

var version = "dev"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))
)

// cfg is loaded before any subcommand runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "docforge",
	Short: "Compile markdown into styled standalone HTML",
	Long: titleStyle.Render("docforge") + `

Turns markdown documents into single-file HTML pages with a chosen style
preset, a table of contents, diagrams and code highlighting.

` + dimStyle.Render("Use 'docforge [command] --help' for more information."),
	Version:           version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(buildCmd, outlineCmd, stylesCmd, serveCmd, initCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	setupLogging(verbose)

	path, _ := cmd.Flags().GetString("config")
	loaded, err := config.Load(path)
	if err != nil {
		return err
	}
	cfg = loaded
	log.Debug().Str("config", cfg.GetConfigFilePath()).Msg("configuration loaded")
	return nil
}

func setupLogging(verbose bool) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}

// resolveStyle applies --style and --accent over the configured values.
func resolveStyle(cmd *cobra.Command) (style.Style, error) {
	name, accent := cfg.Style, cfg.Accent
	if cmd.Flags().Changed("style") {
		name, _ = cmd.Flags().GetString("style")
	}
	if cmd.Flags().Changed("accent") {
		accent, _ = cmd.Flags().GetString("accent")
	}
	return style.Lookup(name, accent)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}
