package vectorindex

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Logger defines the interface for logging operations within this package.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// File is one image handed to the indexing service.
type File struct {
	// Name is the stored (normalized) filename the service will index under.
	Name string

	// Content is the raw image bytes.
	Content []byte
}

// Client talks to the external indexing service over its multipart HTTP API.
// It hides transport details from the application layer; callers see only the
// service's six operations and ErrUpstream on failure.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     Logger
}

// NewClient constructs a Client from Config.
func NewClient(cfg Config, logger Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.Endpoint, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

// Add indexes a single image. Used by the legacy synchronous ingest path.
func (c *Client) Add(ctx context.Context, file File) error {
	return c.postMultipart(ctx, c.baseURL+"/add", "image", []File{file}, nil)
}

// AddBatch indexes all given images in one call. The ingestion pipeline bundles
// every file of one upload request into exactly one AddBatch call.
func (c *Client) AddBatch(ctx context.Context, files []File) error {
	if len(files) == 0 {
		return fmt.Errorf("vectorindex: no files to add")
	}
	return c.postMultipart(ctx, c.baseURL+"/add-batch", "images", files, nil)
}

// Search submits a query image and returns the matching file paths ranked
// best-first. An empty slice means no matches.
func (c *Client) Search(ctx context.Context, query File) ([]string, error) {
	var matches []string
	err := c.postMultipart(ctx, c.baseURL+"/search", "image", []File{query}, &matches)
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// Delete removes the vector entry for the given filename.
func (c *Client) Delete(ctx context.Context, filename string) error {
	return c.postJSON(ctx, c.baseURL+"/delete", map[string]string{"filename": filename}, nil)
}

// Reload asks the service to rebuild its index from storage.
func (c *Client) Reload(ctx context.Context) error {
	return c.postJSON(ctx, c.baseURL+"/reload", nil, nil)
}

// Reset asks the service to drop its index entirely.
func (c *Client) Reset(ctx context.Context) error {
	return c.postJSON(ctx, c.baseURL+"/reset", nil, nil)
}
