package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/CageChen/docforge/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().String("path", config.LocalConfigFile, "Where to write the configuration")
	initCmd.Flags().StringSlice("folder", nil, "Document folder to include (repeatable)")
	initCmd.Flags().String("style", "", "Default style preset")
	initCmd.Flags().Bool("force", false, "Overwrite an existing file")
}

func runInit(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("path")
	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	c := config.DefaultConfig()
	c.SetConfigFilePath(path)
	if name, _ := cmd.Flags().GetString("style"); name != "" {
		c.Style = name
	}

	folders, _ := cmd.Flags().GetStringSlice("folder")
	for _, f := range folders {
		if err := c.AddFolder(f, "", "", nil); err != nil {
			return err
		}
	}

	if err := c.Validate(); err != nil {
		return err
	}
	if err := c.Save(); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✓ Wrote "+path))
	return nil
}
