package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"specter/internal/config"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage Specter configuration",
	Long:  "View and update the settings in ~/.specter/config.yaml",
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Get configuration value",
	Long:  "Display a specific configuration value or all configuration",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		values, err := configValues(globalConfig)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(args) == 0 {
			keys := make([]string, 0, len(values))
			for k := range values {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			fmt.Fprintln(out, "Current configuration:")
			for _, k := range keys {
				fmt.Fprintf(out, "%s: %v\n", k, values[k])
			}
			fmt.Fprintf(out, "\nActive backend: %s\n", globalConfig.BackendURL())
			return nil
		}

		v, ok := values[args[0]]
		if !ok {
			return fmt.Errorf("unknown configuration key: %s", args[0])
		}
		fmt.Fprintln(out, v)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set configuration value",
	Long:  "Update one setting in the global config file, e.g. 'specter config set app_mode dev'",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetGlobalConfigPath()
		if err != nil {
			return err
		}
		cfg, err := config.LoadFile(path)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		updated, err := setConfigValue(cfg, args[0], args[1])
		if err != nil {
			return err
		}
		if err := updated.Validate(); err != nil {
			return err
		}
		if err := updated.Save(path); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}

		printSuccess(cmd.OutOrStdout(), "%s updated", args[0])
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long:  "Create a new configuration file with default values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetGlobalConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}

		out := cmd.OutOrStdout()
		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(path); err == nil && !force {
			fmt.Fprintln(out, "Configuration file already exists.")
			fmt.Fprintln(out, "Use 'specter config set' to modify existing configuration.")
			return nil
		}

		cfg := config.DefaultConfig()
		if mode, _ := cmd.Flags().GetString("mode"); mode != "" {
			cfg.AppMode = config.Mode(mode)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := cfg.Save(path); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}

		printSuccess(out, "Configuration initialized")
		fmt.Fprintf(out, "Configuration file created at: %s\n", path)
		return nil
	},
}

var configPathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Show configuration file paths",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		files := []struct {
			label string
			path  string
		}{
			{"Config file", filepath.Join(globalDir, "config.yaml")},
			{"Session file", tokenStore().TokenFile},
			{"Local storage", localStorage().Path()},
			{"Log file", filepath.Join(globalDir, "logs", "specter.log")},
		}

		fmt.Fprintf(out, "Config directory: %s\n", globalDir)
		for _, f := range files {
			state := "exists"
			if _, err := os.Stat(f.path); os.IsNotExist(err) {
				state = "does not exist"
			}
			fmt.Fprintf(out, "- %s: %s (%s)\n", f.label, f.path, state)
		}
		return nil
	},
}

// configValues flattens the config into its yaml keys
func configValues(cfg *config.Config) (map[string]any, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	values := map[string]any{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, err
	}
	return values, nil
}

// configKeys lists every settable key, including the ones omitted when empty
var configKeys = []string{
	"app_mode",
	"backend_url_dev",
	"backend_url_prod",
	"frontend_url_dev",
	"frontend_url_prod",
	"auth_url",
	"download_dir",
	"log_level",
	"log_format",
}

func setConfigValue(cfg *config.Config, key, value string) (*config.Config, error) {
	known := false
	for _, k := range configKeys {
		if k == key {
			known = true
			break
		}
	}
	if !known {
		return nil, fmt.Errorf("unknown configuration key: %s", key)
	}

	values, err := configValues(cfg)
	if err != nil {
		return nil, err
	}
	values[key] = value

	data, err := yaml.Marshal(values)
	if err != nil {
		return nil, err
	}
	updated := &config.Config{}
	if err := yaml.Unmarshal(data, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathsCmd)

	configInitCmd.Flags().String("mode", "", "Initial app mode (dev or prod)")
	configInitCmd.Flags().BoolP("force", "f", false, "Overwrite an existing configuration file")
}
