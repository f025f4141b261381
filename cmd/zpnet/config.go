package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/muurk/zpnet/internal/config"
)

var forceInit bool

func init() {
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetHostCmd)
	configCmd.AddCommand(configRemoveHostCmd)
	rootCmd.AddCommand(configCmd)

	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing config file")
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the zpnet config file",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolvedConfigPath()
		if err != nil {
			return err
		}
		current.printer.Println(path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration, flags applied",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := yaml.Marshal(current.cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		current.printer.Print(string(data))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with default values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolvedConfigPath()
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err == nil && !forceInit {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		if err := config.New().Save(path); err != nil {
			return err
		}
		current.printer.Println(current.printer.Styles().Success.Render("Wrote " + path))
		return nil
	},
}

var configSetHostCmd = &cobra.Command{
	Use:   "set-host MAC NAME",
	Short: "Name a MAC address in reports",
	Example: `  # Name an access point whose MAC is not in the neighbor cache
  zpnet config set-host 80:2a:a8:d1:07:95 office-ap`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editConfig(func(cfg *config.Config) error {
			return cfg.SetHost(args[0], args[1])
		})
	},
}

var configRemoveHostCmd = &cobra.Command{
	Use:   "remove-host MAC",
	Short: "Remove a MAC address name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editConfig(func(cfg *config.Config) error {
			removed, err := cfg.RemoveHost(args[0])
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("no host name set for %s", args[0])
			}
			return nil
		})
	},
}

func resolvedConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetConfigPath()
}

// editConfig loads the file as stored, without flag overrides, applies
// edit and saves it.
func editConfig(edit func(*config.Config) error) error {
	path, err := resolvedConfigPath()
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := edit(cfg); err != nil {
		return err
	}
	if err := cfg.Save(path); err != nil {
		return err
	}
	current.printer.Println(current.printer.Styles().Success.Render("Updated " + path))
	return nil
}
