// Package recognition implements the R300 recognition server client.
// The server receives JPEG-encoded aligned face crops and returns one
// versioned embedding vector per crop.
package recognition

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"net/url"

	"github.com/appliedrecognition/face-template-r300/internal/facetemplate"
)

// Config holds the recognition server settings.
type Config struct {
	URL    string
	APIKey string
}

// Client posts aligned face crops to the recognition server and decodes
// the returned templates. It implements facetemplate.EmbeddingGenerator
// and holds no mutable state beyond its configuration.
type Client struct {
	url    string
	apiKey string
	client *http.Client
}

// NewClient validates cfg and builds a client. Missing or malformed
// configuration fails here, before any network activity.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("recognition: missing API key")
	}
	if cfg.URL == "" {
		return nil, errors.New("recognition: missing server URL")
	}
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("recognition: invalid server URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("recognition: invalid server URL %q", cfg.URL)
	}

	return &Client{
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		client: &http.Client{},
	}, nil
}

// extractionRequest is the request body for template extraction.
type extractionRequest struct {
	Images []string `json:"images"` // base64-encoded JPEG buffers, in face order
}

// templateResponse is one element of the server's response array.
type templateResponse struct {
	Version int       `json:"version"`
	Data    []float32 `json:"data"`
}

// GenerateEmbeddings encodes each aligned crop as a maximum quality
// JPEG and posts the batch to the server. The server returns one
// template per image, in input order.
func (c *Client) GenerateEmbeddings(ctx context.Context, alignedImages []image.Image) ([]facetemplate.Template, error) {
	request := extractionRequest{Images: make([]string, 0, len(alignedImages))}
	for i, img := range alignedImages {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 100}); err != nil {
			return nil, fmt.Errorf("%w: face %d: %v", facetemplate.ErrImageEncoding, i, err)
		}
		request.Images = append(request.Images, base64.StdEncoding.EncodeToString(buf.Bytes()))
	}

	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		// Response body is not salvaged; the failure is terminal.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: server returned status %d", facetemplate.ErrTemplateExtraction, resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var decoded []templateResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	templates := make([]facetemplate.Template, 0, len(decoded))
	for _, tmpl := range decoded {
		templates = append(templates, facetemplate.Template{Version: tmpl.Version, Data: tmpl.Data})
	}
	return templates, nil
}
