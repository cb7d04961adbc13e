package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/imagerouter/imagerouter-go/internal/api"
	"github.com/imagerouter/imagerouter-go/internal/apperrors"
	"github.com/imagerouter/imagerouter-go/internal/config"
	"github.com/imagerouter/imagerouter-go/internal/estimate"
	"github.com/imagerouter/imagerouter-go/internal/generate"
)

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a video or image (dry run without --execute)",
		Long: "Prices the request against the catalog and prints the estimate. " +
			"Without --execute nothing is submitted and nothing is charged.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			mediaType, _ := cmd.Flags().GetString("type")
			model, _ := cmd.Flags().GetString("model")
			prompt, _ := cmd.Flags().GetString("prompt")
			seconds, _ := cmd.Flags().GetInt("seconds")
			quality, _ := cmd.Flags().GetString("quality")
			size, _ := cmd.Flags().GetString("size")
			imagePaths, _ := cmd.Flags().GetStringSlice("image")
			maskPaths, _ := cmd.Flags().GetStringSlice("mask")
			output, _ := cmd.Flags().GetString("output")
			format, _ := cmd.Flags().GetString("response-format")
			execute, _ := cmd.Flags().GetBool("execute")

			if mediaType != "video" && mediaType != "image" {
				return fmt.Errorf("--type must be video or image, got %q", mediaType)
			}

			key := resolveKey(cfg)
			if execute && key == "" {
				_, err := requireKey(cfg)
				return err
			}

			if err := preflightEstimate(cmd, cfg, key, mediaType, model, seconds, quality, size); err != nil {
				return err
			}

			if !execute {
				fmt.Println("\nDry run. Re-run with --execute to submit this generation.")
				return nil
			}

			client := newAPIClient(cfg, key)
			outPath := generate.OutputPath(output, mediaType, model)

			var resp *api.GenerationResponse
			switch mediaType {
			case "video":
				resp, err = generate.NewVideoGenerator(client).Generate(cmd.Context(), generate.VideoOptions{
					Model:          model,
					Prompt:         prompt,
					Seconds:        seconds,
					Size:           size,
					ResponseFormat: format,
					ImagePaths:     imagePaths,
					OutputPath:     outPath,
				})
			case "image":
				resp, err = generate.NewImageGenerator(client).Generate(cmd.Context(), generate.ImageOptions{
					Model:          model,
					Prompt:         prompt,
					Quality:        quality,
					Size:           size,
					ResponseFormat: format,
					ImagePaths:     imagePaths,
					MaskPaths:      maskPaths,
					OutputPath:     outPath,
				})
			}
			if err != nil {
				return err
			}

			for _, out := range resp.Data {
				if out.URL != "" {
					fmt.Printf("URL:     %s\n", out.URL)
				}
				if out.RevisedPrompt != "" {
					fmt.Printf("Revised: %s\n", out.RevisedPrompt)
				}
			}
			fmt.Printf("Saved:   %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().String("type", "", "Generation type: video or image")
	cmd.Flags().String("model", "", "Model id")
	cmd.Flags().String("prompt", "", "Generation prompt")
	cmd.Flags().Int("seconds", 0, "Video duration in seconds")
	cmd.Flags().String("quality", "", "Image quality")
	cmd.Flags().String("size", "", "Output size")
	cmd.Flags().StringSlice("image", nil, "Input image path (repeatable; switches to image-to-image/video)")
	cmd.Flags().StringSlice("mask", nil, "Mask image path (repeatable; image edits only)")
	cmd.Flags().String("output", "", "Output file path (default: auto-named in the working directory)")
	cmd.Flags().String("response-format", "url", "Response format: url, b64_json, or b64_ephemeral")
	cmd.Flags().Bool("execute", false, "Actually submit the generation")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("model")
	_ = cmd.MarkFlagRequired("prompt")

	return cmd
}

// preflightEstimate prices the request before anything is submitted. An
// unknown model is only a warning: the live catalog can lag behind what
// the generation endpoints accept.
func preflightEstimate(cmd *cobra.Command, cfg *config.Config, key, mediaType, model string, seconds int, quality, size string) error {
	store, err := loadStore(cmd.Context(), cfg, key == "")
	if err != nil {
		return err
	}
	estimator := estimate.New(store)

	var est *estimate.Estimate
	if mediaType == "video" {
		est, err = estimator.Video(model, seconds, 1)
	} else {
		est, err = estimator.Image(model, quality, size, 1)
	}
	if err != nil {
		if apperrors.IsModelNotFound(err) {
			slog.Warn("model not in catalog, cost unknown", "model", model)
			return nil
		}
		return err
	}

	renderEstimate(os.Stdout, est)
	return nil
}
