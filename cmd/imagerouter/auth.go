package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/imagerouter/imagerouter-go/internal/auth"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the stored API key",
	}
	cmd.AddCommand(authLoginCmd(), authStatusCmd(), authLogoutCmd())
	return cmd
}

func authLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store an API key in the OS keyring",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			key, err := auth.Prompt("API key: ")
			if err != nil {
				return err
			}

			if verify, _ := cmd.Flags().GetBool("verify"); verify {
				if err := newAPIClient(cfg, key).TestAuth(cmd.Context()); err != nil {
					return fmt.Errorf("key rejected by the service: %w", err)
				}
			}

			if err := auth.Save(key); err != nil {
				return err
			}
			fmt.Println("API key stored in the keyring.")
			return nil
		},
	}

	cmd.Flags().Bool("verify", true, "Test the key against the API before storing it")

	return cmd
}

func authStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show where the API key comes from",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			var key string
			if cfg.APIKey != "" {
				key = cfg.APIKey
				fmt.Println("API key: configured (config file or IMAGEROUTER_API_KEY)")
			} else {
				var src auth.Source
				key, src = auth.Resolve()
				if src == auth.SourceNone {
					fmt.Println("API key: not configured")
					return nil
				}
				fmt.Printf("API key: configured (%s)\n", src)
			}

			if verify, _ := cmd.Flags().GetBool("verify"); verify {
				if err := newAPIClient(cfg, key).TestAuth(cmd.Context()); err != nil {
					return fmt.Errorf("key rejected by the service: %w", err)
				}
				fmt.Println("Verified against the API.")
			}
			return nil
		},
	}

	cmd.Flags().Bool("verify", false, "Test the key against the API")

	return cmd
}

func authLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the API key from the OS keyring",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, src := auth.Resolve(); src != auth.SourceKeyring {
				fmt.Println("No API key stored in the keyring.")
				return nil
			}
			if err := auth.Delete(); err != nil {
				return err
			}
			fmt.Println("API key removed from the keyring.")
			return nil
		},
	}
}
