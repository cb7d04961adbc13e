package generate

import (
	"context"
	"log/slog"

	"github.com/imagerouter/imagerouter-go/internal/api"
)

// VideoGenerator submits text-to-video and image-to-video requests.
type VideoGenerator struct {
	client *api.Client
}

func NewVideoGenerator(client *api.Client) *VideoGenerator {
	return &VideoGenerator{client: client}
}

// VideoOptions are the user-facing knobs for a video generation.
type VideoOptions struct {
	Model          string
	Prompt         string
	Seconds        int      // 0 = model default
	Size           string   // "" or "auto" = model default
	ResponseFormat string   // url, b64_json, b64_ephemeral
	ImagePaths     []string // non-empty switches to image-to-video
	OutputPath     string   // save first output here when set
}

// Generate runs the request and, when OutputPath is set, saves the first
// output to disk.
func (g *VideoGenerator) Generate(ctx context.Context, opts VideoOptions) (*api.GenerationResponse, error) {
	prompt, err := ValidatePrompt(opts.Prompt)
	if err != nil {
		return nil, err
	}

	uploads, err := PrepareUploads(opts.ImagePaths)
	if err != nil {
		return nil, err
	}

	slog.Debug("submitting video generation",
		"model", opts.Model, "seconds", opts.Seconds, "inputs", len(uploads))

	resp, err := g.client.GenerateVideo(ctx, api.VideoRequest{
		Model:          opts.Model,
		Prompt:         prompt,
		Seconds:        opts.Seconds,
		Size:           opts.Size,
		ResponseFormat: opts.ResponseFormat,
		Images:         uploads,
	})
	if err != nil {
		return nil, err
	}

	if opts.OutputPath != "" {
		if _, err := SaveOutput(ctx, resp, opts.OutputPath); err != nil {
			return resp, err
		}
	}
	return resp, nil
}

// ImageGenerator submits text-to-image and image-to-image requests.
type ImageGenerator struct {
	client *api.Client
}

func NewImageGenerator(client *api.Client) *ImageGenerator {
	return &ImageGenerator{client: client}
}

// ImageOptions are the user-facing knobs for an image generation.
type ImageOptions struct {
	Model          string
	Prompt         string
	Quality        string
	Size           string
	ResponseFormat string
	ImagePaths     []string // non-empty switches to image-to-image
	MaskPaths      []string // only meaningful with ImagePaths
	OutputPath     string
}

// Generate runs the request and, when OutputPath is set, saves the first
// output to disk.
func (g *ImageGenerator) Generate(ctx context.Context, opts ImageOptions) (*api.GenerationResponse, error) {
	prompt, err := ValidatePrompt(opts.Prompt)
	if err != nil {
		return nil, err
	}

	images, err := PrepareUploads(opts.ImagePaths)
	if err != nil {
		return nil, err
	}
	masks, err := PrepareUploads(opts.MaskPaths)
	if err != nil {
		return nil, err
	}

	slog.Debug("submitting image generation",
		"model", opts.Model, "quality", opts.Quality, "inputs", len(images))

	resp, err := g.client.GenerateImage(ctx, api.ImageRequest{
		Model:          opts.Model,
		Prompt:         prompt,
		Quality:        opts.Quality,
		Size:           opts.Size,
		ResponseFormat: opts.ResponseFormat,
		Images:         images,
		Masks:          masks,
	})
	if err != nil {
		return nil, err
	}

	if opts.OutputPath != "" {
		if _, err := SaveOutput(ctx, resp, opts.OutputPath); err != nil {
			return resp, err
		}
	}
	return resp, nil
}
