// internal/core/ports/classifier.go
package ports

import "context"

// Classifier turns an image payload, usually a data URI, into a text label.
type Classifier interface {
	Classify(ctx context.Context, image string) (string, error)
}

// Capturer produces a still image as a data URI.
type Capturer interface {
	Capture(ctx context.Context) (string, error)
}
