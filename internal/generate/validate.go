// Package generate drives generation requests end to end: input
// validation, upload preparation, request submission and output saving.
// Cost estimation never depends on this package.
package generate

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/imagerouter/imagerouter-go/internal/api"
	"github.com/imagerouter/imagerouter-go/internal/apperrors"
)

const (
	maxPromptLen   = 10000
	maxInputImages = 16
)

var imageMIMETypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// ValidatePrompt trims and checks a text prompt.
func ValidatePrompt(prompt string) (string, error) {
	cleaned := strings.TrimSpace(prompt)
	if cleaned == "" {
		return "", apperrors.New(apperrors.KindValidation, "prompt cannot be empty")
	}
	if len(cleaned) > maxPromptLen {
		return "", apperrors.New(apperrors.KindValidation,
			"prompt too long (%d chars, max %d)", len(cleaned), maxPromptLen)
	}
	return cleaned, nil
}

// PrepareUploads validates and reads input image files. The field name
// is assigned later by the API layer.
func PrepareUploads(paths []string) ([]api.Upload, error) {
	if len(paths) > maxInputImages {
		return nil, apperrors.New(apperrors.KindValidation,
			"too many input images (%d, max %d)", len(paths), maxInputImages)
	}

	uploads := make([]api.Upload, 0, len(paths))
	for _, path := range paths {
		u, err := prepareUpload(path)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, u)
	}
	return uploads, nil
}

func prepareUpload(path string) (api.Upload, error) {
	info, err := os.Stat(path)
	if err != nil {
		return api.Upload{}, apperrors.New(apperrors.KindValidation, "image file not found: %s", path)
	}
	if info.IsDir() {
		return api.Upload{}, apperrors.New(apperrors.KindValidation, "path is not a file: %s", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	mime, ok := imageMIMETypes[ext]
	if !ok {
		return api.Upload{}, apperrors.New(apperrors.KindValidation,
			"unsupported image format %q (supported: %s)", ext, supportedFormats())
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return api.Upload{}, apperrors.Wrap(apperrors.KindValidation, err, "reading image %s", path)
	}

	return api.Upload{
		Filename: filepath.Base(path),
		MIME:     mime,
		Content:  content,
	}, nil
}

func supportedFormats() string {
	exts := make([]string, 0, len(imageMIMETypes))
	for ext := range imageMIMETypes {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return strings.Join(exts, ", ")
}
