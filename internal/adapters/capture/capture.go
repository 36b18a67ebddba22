// internal/adapters/capture/capture.go
package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ammerola/pantry-be/internal/adapters/classifier"
	"github.com/ammerola/pantry-be/internal/core/ports"
)

// MaxImageBytes bounds a single captured still.
const MaxImageBytes = 10 << 20

// ErrNotAnImage is returned when the captured bytes are not an image.
var ErrNotAnImage = errors.New("captured data is not an image")

// FileCapturer reads a still written by a camera to a fixed path.
type FileCapturer struct {
	path   string
	logger *slog.Logger
}

var _ ports.Capturer = (*FileCapturer)(nil)

// NewFileCapturer creates a capturer for a snapshot file
func NewFileCapturer(path string, logger *slog.Logger) *FileCapturer {
	return &FileCapturer{
		path:   path,
		logger: logger.With(slog.String("capture", "file")),
	}
}

// Capture returns the current snapshot as a data URI.
func (c *FileCapturer) Capture(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	file, err := os.Open(c.path)
	if err != nil {
		return "", fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer file.Close()

	data, err := readLimited(file)
	if err != nil {
		return "", err
	}

	uri, err := toDataURI(data)
	if err != nil {
		return "", err
	}

	c.logger.DebugContext(ctx, "snapshot captured",
		slog.String("path", c.path),
		slog.Int("bytes", len(data)))

	return uri, nil
}

// HTTPCapturer fetches a still from a camera snapshot endpoint.
type HTTPCapturer struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

var _ ports.Capturer = (*HTTPCapturer)(nil)

// NewHTTPCapturer creates a capturer for a snapshot URL. A nil client uses
// one with a ten second timeout.
func NewHTTPCapturer(url string, client *http.Client, logger *slog.Logger) *HTTPCapturer {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPCapturer{
		url:    url,
		client: client,
		logger: logger.With(slog.String("capture", "http")),
	}
}

// Capture downloads the snapshot and returns it as a data URI.
func (c *HTTPCapturer) Capture(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build snapshot request: %w", err)
	}
	req.Header.Set("Accept", "image/*")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("snapshot endpoint returned %s", resp.Status)
	}

	data, err := readLimited(resp.Body)
	if err != nil {
		return "", err
	}

	uri, err := toDataURI(data)
	if err != nil {
		return "", err
	}

	c.logger.DebugContext(ctx, "snapshot fetched", slog.Int("bytes", len(data)))
	return uri, nil
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	if len(data) > MaxImageBytes {
		return nil, fmt.Errorf("snapshot exceeds %d bytes", MaxImageBytes)
	}
	return data, nil
}

// toDataURI sniffs the content type and rejects anything but images.
func toDataURI(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrNotAnImage
	}

	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return "", fmt.Errorf("%w: detected %s", ErrNotAnImage, mimeType)
	}

	return classifier.EncodeDataURI(data, mimeType), nil
}
