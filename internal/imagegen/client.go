package imagegen

import "context"

type Options struct {
	// Size is the requested resolution, e.g. "512x512".
	Size string
	// Format is the preferred output format ("png" or "jpg"). Providers
	// may ignore it; the producer verifies the actual bytes.
	Format string
}

// Client is the minimal capability the producer needs from an external
// image-generation service: a prompt in, image bytes out.
type Client interface {
	Generate(ctx context.Context, prompt string, opts Options) ([]byte, error)
}
