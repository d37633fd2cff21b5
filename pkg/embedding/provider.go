package embedding

import "context"

// Provider converts text into a fixed-size dense vector.
type Provider interface {
	// Embed returns the embedding for a single piece of text.
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedBatch returns one embedding per input text, in order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	// Dimension reports the length of the vectors this provider produces.
	Dimension() int
}
