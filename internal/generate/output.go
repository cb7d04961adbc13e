package generate

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/imagerouter/imagerouter-go/internal/api"
	"github.com/imagerouter/imagerouter-go/internal/apperrors"
)

// downloadTimeout bounds fetching a finished artifact from the CDN; the
// generation itself has already completed by then.
const downloadTimeout = 60 * time.Second

// SaveOutput writes the first generated item to path, downloading it
// when the response carries a URL or decoding inline base64 data.
func SaveOutput(ctx context.Context, resp *api.GenerationResponse, path string) (string, error) {
	if len(resp.Data) == 0 {
		return "", apperrors.New(apperrors.KindValidation, "no output data in response")
	}

	dir := filepath.Dir(path)
	if _, err := os.Stat(dir); err != nil {
		return "", apperrors.New(apperrors.KindValidation, "output directory does not exist: %s", dir)
	}

	first := resp.Data[0]
	switch {
	case first.URL != "":
		return path, download(ctx, first.URL, path)
	case first.B64JSON != "":
		decoded, err := base64.StdEncoding.DecodeString(first.B64JSON)
		if err != nil {
			return "", apperrors.Wrap(apperrors.KindValidation, err, "decoding base64 output")
		}
		return path, os.WriteFile(path, decoded, 0o644)
	default:
		return "", apperrors.New(apperrors.KindValidation, "response contains neither URL nor base64 data")
	}
}

func download(ctx context.Context, url, path string) error {
	ctx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating download request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return apperrors.Wrap(apperrors.KindNetwork, err, "downloading output")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return apperrors.New(apperrors.KindNetwork, "downloading output: status %d", resp.StatusCode)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return apperrors.Wrap(apperrors.KindNetwork, err, "writing output file")
	}
	return nil
}

// OutputPath resolves where to save a generation. An empty userPath gets
// an auto-generated name from the model id and timestamp; a path without
// an extension gets the media type's default.
func OutputPath(userPath, media, model string) string {
	if userPath != "" {
		if filepath.Ext(userPath) == "" {
			return userPath + defaultExt(media)
		}
		return userPath
	}

	safe := strings.NewReplacer("/", "_", ":", "_").Replace(model)
	return fmt.Sprintf("%s_%d%s", safe, time.Now().Unix(), defaultExt(media))
}

func defaultExt(media string) string {
	if media == "video" {
		return ".mp4"
	}
	return ".png"
}
