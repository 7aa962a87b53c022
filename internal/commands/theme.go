package commands

import (
	"fmt"

	"specter/internal/colormode"

	"github.com/spf13/cobra"
)

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Show or change the dashboard color mode",
	Long:  "The color mode is shared with the dashboard and saved in ~/.specter/storage.json",
}

var themeShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current color mode",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), themeStore().Mode())
		return nil
	},
}

var themeToggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Switch between light and dark",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := themeStore().Toggle()
		if err != nil {
			return err
		}
		printSuccess(cmd.OutOrStdout(), "Color mode set to %s", mode)
		return nil
	},
}

var themeSetCmd = &cobra.Command{
	Use:       "set <light|dark>",
	Short:     "Set the color mode",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(colormode.Light), string(colormode.Dark)},
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := colormode.Parse(args[0])
		if err != nil {
			return err
		}
		if err := themeStore().Set(mode); err != nil {
			return err
		}
		printSuccess(cmd.OutOrStdout(), "Color mode set to %s", mode)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(themeCmd)
	themeCmd.AddCommand(themeShowCmd)
	themeCmd.AddCommand(themeToggleCmd)
	themeCmd.AddCommand(themeSetCmd)
}
