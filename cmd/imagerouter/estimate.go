package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/imagerouter/imagerouter-go/internal/estimate"
)

func estimateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate the cost of a generation without running it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			mediaType, _ := cmd.Flags().GetString("type")
			model, _ := cmd.Flags().GetString("model")
			seconds, _ := cmd.Flags().GetInt("seconds")
			count, _ := cmd.Flags().GetInt("count")
			quality, _ := cmd.Flags().GetString("quality")
			size, _ := cmd.Flags().GetString("size")
			asJSON, _ := cmd.Flags().GetBool("json")
			offline, _ := cmd.Flags().GetBool("offline")

			store, err := loadStore(cmd.Context(), cfg, offline)
			if err != nil {
				return err
			}
			estimator := estimate.New(store)

			var est *estimate.Estimate
			switch mediaType {
			case "video":
				est, err = estimator.Video(model, seconds, count)
			case "image":
				est, err = estimator.Image(model, quality, size, count)
			default:
				return fmt.Errorf("--type must be video or image, got %q", mediaType)
			}
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(est)
			}
			renderEstimate(os.Stdout, est)
			return nil
		},
	}

	cmd.Flags().String("type", "", "Generation type: video or image")
	cmd.Flags().String("model", "", "Model id, e.g. google/veo-3.1-fast")
	cmd.Flags().Int("seconds", 0, "Video duration in seconds (default: model's first tier)")
	cmd.Flags().Int("count", 1, "Number of outputs")
	cmd.Flags().String("quality", "", "Image quality (default: auto)")
	cmd.Flags().String("size", "", "Image size (default: auto)")
	cmd.Flags().Bool("json", false, "Emit the estimate as JSON")
	cmd.Flags().Bool("offline", false, "Use the bundled model table instead of the live catalog")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("model")

	return cmd
}
