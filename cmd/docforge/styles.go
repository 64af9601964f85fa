package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/CageChen/docforge/internal/style"
)

var stylesCmd = &cobra.Command{
	Use:   "styles",
	Short: "List the style presets",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, p := range style.Presets() {
			s := p.Style()
			swatch := lipgloss.NewStyle().
				Background(lipgloss.Color(s.Background)).
				Foreground(lipgloss.Color(s.Accent)).
				Bold(true).
				Render(" Aa ")

			marker := " "
			if s.Name == cfg.Style {
				marker = successStyle.Render("*")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %-10s %s\n", marker, swatch, s.Name,
				dimStyle.Render(fmt.Sprintf("accent %s, code theme %s", s.Accent, s.CodeTheme)))
		}
	},
}
