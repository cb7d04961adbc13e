package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strconv"
)

// Upload is one file attached to a multipart generation request.
type Upload struct {
	Field    string
	Filename string
	MIME     string
	Content  []byte
}

// GenerationResponse is the service's response for both media types.
type GenerationResponse struct {
	Created int64              `json:"created"`
	Data    []GenerationOutput `json:"data"`
}

// GenerationOutput is one generated item: a URL or inline base64 data,
// depending on the requested response format.
type GenerationOutput struct {
	URL           string `json:"url,omitempty"`
	B64JSON       string `json:"b64_json,omitempty"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`
}

// VideoRequest describes a text-to-video or image-to-video generation.
// Zero Seconds and empty Size mean "model default" and are omitted from
// the wire payload. Images switches the request to multipart (i2v).
type VideoRequest struct {
	Model          string
	Prompt         string
	Seconds        int
	Size           string
	ResponseFormat string
	Images         []Upload
}

// ImageRequest describes a text-to-image or image-to-image generation.
// Images (plus optional Masks) switch the request to the edit endpoint.
type ImageRequest struct {
	Model          string
	Prompt         string
	Quality        string
	Size           string
	ResponseFormat string
	Images         []Upload
	Masks          []Upload
}

type videoPayload struct {
	Prompt         string `json:"prompt"`
	Model          string `json:"model"`
	ResponseFormat string `json:"response_format,omitempty"`
	Seconds        int    `json:"seconds,omitempty"`
	Size           string `json:"size,omitempty"`
}

type imagePayload struct {
	Prompt         string `json:"prompt"`
	Model          string `json:"model"`
	ResponseFormat string `json:"response_format,omitempty"`
	Quality        string `json:"quality,omitempty"`
	Size           string `json:"size,omitempty"`
}

// GenerateVideo submits a video generation and blocks until the service
// responds. Image-to-video requests upload their inputs as multipart.
func (c *Client) GenerateVideo(ctx context.Context, req VideoRequest) (*GenerationResponse, error) {
	var out GenerationResponse

	if len(req.Images) == 0 {
		payload := videoPayload{
			Prompt:         req.Prompt,
			Model:          req.Model,
			ResponseFormat: req.ResponseFormat,
			Seconds:        req.Seconds,
			Size:           normalizeAuto(req.Size),
		}
		if err := c.hc.PostJSON(ctx, pathVideoGenerations, payload, &out); err != nil {
			return nil, err
		}
		return &out, nil
	}

	fields := map[string]string{
		"prompt": req.Prompt,
		"model":  req.Model,
	}
	if req.ResponseFormat != "" {
		fields["response_format"] = req.ResponseFormat
	}
	if req.Seconds > 0 {
		fields["seconds"] = strconv.Itoa(req.Seconds)
	}
	if size := normalizeAuto(req.Size); size != "" {
		fields["size"] = size
	}

	contentType, body, err := buildMultipart(fields, indexed("image", req.Images))
	if err != nil {
		return nil, err
	}
	if err := c.hc.PostRaw(ctx, pathVideoGenerations, contentType, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateImage submits an image generation, routing to the edit
// endpoint when input images are present.
func (c *Client) GenerateImage(ctx context.Context, req ImageRequest) (*GenerationResponse, error) {
	var out GenerationResponse

	if len(req.Images) == 0 {
		payload := imagePayload{
			Prompt:         req.Prompt,
			Model:          req.Model,
			ResponseFormat: req.ResponseFormat,
			Quality:        normalizeAuto(req.Quality),
			Size:           normalizeAuto(req.Size),
		}
		if err := c.hc.PostJSON(ctx, pathImageGenerations, payload, &out); err != nil {
			return nil, err
		}
		return &out, nil
	}

	fields := map[string]string{
		"prompt": req.Prompt,
		"model":  req.Model,
	}
	if req.ResponseFormat != "" {
		fields["response_format"] = req.ResponseFormat
	}
	if quality := normalizeAuto(req.Quality); quality != "" {
		fields["quality"] = quality
	}
	if size := normalizeAuto(req.Size); size != "" {
		fields["size"] = size
	}

	uploads := indexed("image", req.Images)
	uploads = append(uploads, indexed("mask", req.Masks)...)

	contentType, body, err := buildMultipart(fields, uploads)
	if err != nil {
		return nil, err
	}
	if err := c.hc.PostRaw(ctx, pathImageEdits, contentType, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// normalizeAuto treats "auto" as unset so it is omitted from payloads
// and the service applies its own default.
func normalizeAuto(v string) string {
	if v == "auto" {
		return ""
	}
	return v
}

// indexed assigns field names of the form name[0], name[1], ... which is
// how the service expects repeated file fields.
func indexed(name string, uploads []Upload) []Upload {
	out := make([]Upload, len(uploads))
	for i, u := range uploads {
		u.Field = fmt.Sprintf("%s[%d]", name, i)
		out[i] = u
	}
	return out
}

func buildMultipart(fields map[string]string, uploads []Upload) (contentType string, body []byte, err error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return "", nil, fmt.Errorf("writing form field %q: %w", k, err)
		}
	}

	for _, u := range uploads {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, u.Field, u.Filename))
		if u.MIME != "" {
			header.Set("Content-Type", u.MIME)
		}
		part, err := w.CreatePart(header)
		if err != nil {
			return "", nil, fmt.Errorf("creating upload part %q: %w", u.Field, err)
		}
		if _, err := part.Write(u.Content); err != nil {
			return "", nil, fmt.Errorf("writing upload %q: %w", u.Filename, err)
		}
	}

	if err := w.Close(); err != nil {
		return "", nil, err
	}
	return w.FormDataContentType(), buf.Bytes(), nil
}
