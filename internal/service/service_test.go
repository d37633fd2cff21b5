package service

import (
	"context"
	"math"
	"sync"
)

// Shared fakes for the service tests. The repositories come from the
// in-memory factory; these cover the remaining collaborators.

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

// capturingPublisher records every payload handed to the bus.
type capturingPublisher struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (p *capturingPublisher) Publish(_ context.Context, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return nil
}

func (p *capturingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.payloads)
}

// fakeEmbedder maps text to a deterministic unit vector derived from its
// byte histogram, so identical text gets identical embeddings and
// similar text scores high under dot product.
type fakeEmbedder struct{}

const fakeDim = 16

func (fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, fakeDim)
	for _, b := range []byte(text) {
		vec[int(b)%fakeDim]++
	}
	var mag float64
	for _, v := range vec {
		mag += float64(v) * float64(v)
	}
	if mag > 0 {
		norm := math.Sqrt(mag)
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / norm)
		}
	}
	return vec, nil
}

func (f fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		vec, err := f.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out = append(out, vec)
	}
	return out, nil
}

func (fakeEmbedder) Dimension() int {
	return fakeDim
}

// failingEmbedder simulates an embedding provider outage.
type failingEmbedder struct {
	err error
}

func (f failingEmbedder) Embed(context.Context, string) ([]float32, error) {
	return nil, f.err
}

func (f failingEmbedder) EmbedBatch(context.Context, []string) ([][]float32, error) {
	return nil, f.err
}

func (failingEmbedder) Dimension() int {
	return fakeDim
}
