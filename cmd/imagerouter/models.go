package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/imagerouter/imagerouter-go/internal/catalog"
	"github.com/imagerouter/imagerouter-go/internal/config"
	"github.com/imagerouter/imagerouter-go/internal/diff"
)

func modelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List available models and their pricing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			mediaType, _ := cmd.Flags().GetString("type")
			asJSON, _ := cmd.Flags().GetBool("json")
			offline, _ := cmd.Flags().GetBool("offline")
			showDiff, _ := cmd.Flags().GetBool("diff")

			if showDiff {
				return runModelsDiff(cmd, cfg)
			}

			store, err := loadStore(cmd.Context(), cfg, offline)
			if err != nil {
				return err
			}

			models := store.Snapshot().List(catalog.MediaType(mediaType))

			if asJSON {
				type modelJSON struct {
					ID        string   `json:"id"`
					Name      string   `json:"name,omitempty"`
					Provider  string   `json:"provider,omitempty"`
					Type      string   `json:"type"`
					Durations []int    `json:"durations,omitempty"`
					Sizes     []string `json:"sizes,omitempty"`
					Price     string   `json:"price"`
				}
				out := make([]modelJSON, 0, len(models))
				for _, m := range models {
					out = append(out, modelJSON{
						ID:        m.ID,
						Name:      m.Name,
						Provider:  m.Provider,
						Type:      string(m.Media),
						Durations: m.Durations,
						Sizes:     m.Sizes,
						Price:     priceBand(m.Pricing),
					})
				}
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}

			renderModels(os.Stdout, models)
			return nil
		},
	}

	cmd.Flags().String("type", "", "Filter by type: video or image")
	cmd.Flags().Bool("json", false, "Emit the model list as JSON")
	cmd.Flags().Bool("offline", false, "Use the bundled model table instead of the live catalog")
	cmd.Flags().Bool("diff", false, "Diff the bundled model table against the live catalog")

	return cmd
}

// runModelsDiff compares the bundled table with the live catalog and
// prints what changed.
func runModelsDiff(cmd *cobra.Command, cfg *config.Config) error {
	bundled, err := catalog.Bundled()
	if err != nil {
		return err
	}

	live, err := loadStore(cmd.Context(), cfg, false)
	if err != nil {
		return err
	}

	fmt.Print(diff.Render(diff.Compute(bundled, live.Snapshot())))
	return nil
}
