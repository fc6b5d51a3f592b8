package cmd

import (
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/spigell/talentscout/internal/secrets"
)

var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Manage api keys in the OS keychain",
}

var secretSetCmd = &cobra.Command{
	Use:     "set <account>",
	Short:   "Store an api key under the account (gemini and ark are read by default)",
	Example: "  talentscout secret set gemini",
	Args:    cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		prompt := promptui.Prompt{
			Label: "Secret",
			Mask:  '*',
			Validate: func(s string) error {
				if s == "" {
					return fmt.Errorf("secret is empty")
				}
				return nil
			},
		}

		value, err := prompt.Run()
		if err != nil {
			return err
		}

		if err := secrets.Store(args[0], value); err != nil {
			return fmt.Errorf("storing secret: %w", err)
		}
		fmt.Printf("secret saved for %q\n", args[0])
		return nil
	},
}

var secretDeleteCmd = &cobra.Command{
	Use:   "delete <account>",
	Short: "Remove a stored api key",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		if err := secrets.Delete(args[0]); err != nil {
			return fmt.Errorf("deleting secret: %w", err)
		}
		fmt.Printf("secret removed for %q\n", args[0])
		return nil
	},
}

func init() {
	secretCmd.AddCommand(secretSetCmd, secretDeleteCmd)
	rootCmd.AddCommand(secretCmd)
}
