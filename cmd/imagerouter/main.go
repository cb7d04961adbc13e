// Command imagerouter estimates and runs generations against the
// ImageRouter API: cost estimates, the model catalog, account credits,
// and video/image generation itself.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

func main() {
	rootCmd := &cobra.Command{
		Use:     "imagerouter",
		Short:   "Client for the ImageRouter media generation API",
		Long:    "Estimates generation costs, browses the model catalog, and submits video and image generations through ImageRouter.",
		Version: "0.1.0",

		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")

	rootCmd.AddCommand(
		estimateCmd(),
		modelsCmd(),
		creditsCmd(),
		generateCmd(),
		authCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
