// internal/domain/media/gate.go
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
)

// Asset is the stable reference the media host hands back for an upload
type Asset struct {
	URL     string `json:"url"`
	MediaID string `json:"mediaId"`
}

// Gate proxies file uploads to the external media host. Durability and retry
// behavior of the host are its own problem; the backend only keeps the
// returned (url, mediaId) pairs.
type Gate interface {
	Upload(ctx context.Context, file io.Reader, filename, folder string) (*Asset, error)
	Destroy(ctx context.Context, mediaID string) error
}

// HTTPGate talks to the media host over its REST upload/destroy endpoints
type HTTPGate struct {
	config *config.Config
	client *http.Client
	log    *logrus.Logger
}

// NewHTTPGate creates a gate against the configured media host
func NewHTTPGate(cfg *config.Config, log *logrus.Logger) *HTTPGate {
	return &HTTPGate{
		config: cfg,
		client: &http.Client{Timeout: cfg.Media.Timeout},
		log:    log,
	}
}

// Upload sends the file as multipart form data and returns the asset
// reference issued by the host
func (g *HTTPGate) Upload(ctx context.Context, file io.Reader, filename, folder string) (*Asset, error) {
	if err := g.checkExtension(filename); err != nil {
		return nil, err
	}
	if folder == "" {
		folder = g.config.Media.Folder
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to read upload payload: %w", err)
	}

	publicID := fmt.Sprintf("%s/%d-%s", folder, time.Now().Unix(), uuid.New().String()[:8])
	if err := writer.WriteField("folder", folder); err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}
	if err := writer.WriteField("public_id", publicID); err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.config.Media.UploadURL, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+g.config.Media.APIKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("media upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("media upload failed: host returned %d", resp.StatusCode)
	}

	var payload struct {
		URL      string `json:"url"`
		PublicID string `json:"publicId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("media upload failed: invalid response: %w", err)
	}
	if payload.URL == "" || payload.PublicID == "" {
		return nil, fmt.Errorf("media upload failed: incomplete response")
	}

	return &Asset{URL: payload.URL, MediaID: payload.PublicID}, nil
}

// Destroy removes an asset from the media host. A missing asset is not an
// error; the reference is already gone.
func (g *HTTPGate) Destroy(ctx context.Context, mediaID string) error {
	payload, err := json.Marshal(map[string]string{"publicId": mediaID})
	if err != nil {
		return fmt.Errorf("failed to build destroy request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.config.Media.DestroyURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build destroy request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.config.Media.APIKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("media destroy failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("media destroy failed: host returned %d", resp.StatusCode)
	}

	return nil
}

func (g *HTTPGate) checkExtension(filename string) error {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	for _, allowed := range g.config.Upload.AllowedExtensions {
		if ext == strings.ToLower(allowed) {
			return nil
		}
	}
	return fmt.Errorf("file extension %q is not allowed", ext)
}
