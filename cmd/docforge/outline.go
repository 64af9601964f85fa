package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CageChen/docforge/internal/compiler"
	"github.com/CageChen/docforge/internal/source"
)

var outlineCmd = &cobra.Command{
	Use:   "outline <file>",
	Short: "Print a document's title, reading time and heading outline",
	Args:  cobra.ExactArgs(1),
	RunE:  runOutline,
}

func init() {
	outlineCmd.Flags().Bool("json", false, "Print the metadata record as JSON")
	outlineCmd.Flags().String("ref", "", "Read the file from a git ref")
}

func runOutline(cmd *cobra.Command, args []string) error {
	s, err := resolveStyle(cmd)
	if err != nil {
		return err
	}

	var src source.Source
	name := filepath.Base(args[0])
	if ref, _ := cmd.Flags().GetString("ref"); ref != "" {
		name = filepath.ToSlash(filepath.Clean(args[0]))
		src = source.NewGit(".", ref, source.Filter{})
	} else {
		abs, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		src = source.NewLocal(filepath.Dir(abs), source.Filter{})
	}

	raw, err := src.Read(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("input not found: %s", args[0])
		}
		return err
	}

	res := compiler.Compile(string(raw), compiler.Options{
		Style:         s,
		FallbackTitle: strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)),
	})

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res.Meta)
	}

	printOutline(cmd, res.Meta)
	return nil
}

func printOutline(cmd *cobra.Command, m compiler.Metadata) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render(m.Title))
	if m.Subtitle != "" {
		fmt.Fprintln(out, m.Subtitle)
	}

	var byline []string
	for _, part := range []string{m.Author, m.Date, m.ReadingTime, fmt.Sprintf("%d words", m.WordCount)} {
		if part != "" {
			byline = append(byline, part)
		}
	}
	fmt.Fprintln(out, dimStyle.Render(strings.Join(byline, " · ")))

	var features []string
	if m.HasMermaid {
		features = append(features, "diagrams")
	}
	if m.HasHighlighting {
		features = append(features, "code highlighting")
	}
	if len(features) > 0 {
		fmt.Fprintln(out, dimStyle.Render("uses "+strings.Join(features, ", ")))
	}

	if len(m.Outline) == 0 {
		return
	}
	fmt.Fprintln(out)
	for _, e := range m.Outline {
		indent := strings.Repeat("  ", max(e.Level-1, 0))
		fmt.Fprintf(out, "%s%s %s\n", indent, e.Text, dimStyle.Render("#"+e.ID))
	}
}
