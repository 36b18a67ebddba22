// internal/adapters/classifier/genai.go
package classifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/ammerola/pantry-be/internal/core/ports"
)

const (
	// DefaultModel is used when no model is configured.
	DefaultModel = "gemini-2.5-flash"

	// MaxOutputTokens caps the label length returned by the model.
	MaxOutputTokens = 100

	classifyPrompt = "Classify this image:"
)

// ErrEmptyLabel is returned when the model answers with no text.
var ErrEmptyLabel = errors.New("classifier returned an empty label")

// Config holds the GenAI classifier settings
type Config struct {
	APIKey  string
	Model   string
	BaseURL string // overrides the API endpoint, used by tests and proxies
}

// GenAIClassifier labels images with a Gemini model.
type GenAIClassifier struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

var _ ports.Classifier = (*GenAIClassifier)(nil)

// NewGenAIClassifier creates a classifier backed by the Gemini API.
func NewGenAIClassifier(ctx context.Context, cfg Config, logger *slog.Logger) (*GenAIClassifier, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAIClassifier{
		client: client,
		model:  cfg.Model,
		logger: logger.With(slog.String("classifier", "genai")),
	}, nil
}

// Classify sends the image to the model and returns the trimmed answer.
// Data URIs are sent inline. Any other source is passed in the prompt.
func (c *GenAIClassifier) Classify(ctx context.Context, image string) (string, error) {
	parts, err := promptParts(image)
	if err != nil {
		return "", err
	}

	result, err := c.client.Models.GenerateContent(ctx,
		c.model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		&genai.GenerateContentConfig{MaxOutputTokens: MaxOutputTokens},
	)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}

	label := strings.TrimSpace(result.Text())
	if label == "" {
		return "", ErrEmptyLabel
	}

	c.logger.DebugContext(ctx, "image classified",
		slog.String("model", c.model),
		slog.String("label", label))

	return label, nil
}

func promptParts(image string) ([]*genai.Part, error) {
	image = strings.TrimSpace(image)

	if IsDataURI(image) {
		data, mimeType, err := DecodeDataURI(image)
		if err != nil {
			return nil, err
		}
		return []*genai.Part{
			genai.NewPartFromText(classifyPrompt),
			genai.NewPartFromBytes(data, mimeType),
		}, nil
	}

	return []*genai.Part{genai.NewPartFromText(classifyPrompt + " " + image)}, nil
}
