package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func creditsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credits",
		Short: "Show the account credit balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			key, err := requireKey(cfg)
			if err != nil {
				return err
			}

			credits, err := newAPIClient(cfg, key).Credits(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(credits)
			}

			fmt.Printf("Remaining:  %s\n", money(credits.Remaining))
			fmt.Printf("Used:       %s\n", money(credits.Usage))
			fmt.Printf("Deposited:  %s\n", money(credits.Deposits))
			return nil
		},
	}

	cmd.Flags().Bool("json", false, "Emit the balance as JSON")

	return cmd
}
