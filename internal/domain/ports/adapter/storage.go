package adapter

import "context"

// ObjectStore is the port for durable audio storage. Keys are content
// paths scoped to a voiceover (e.g. "voiceovers/<id>/audio.wav").
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	// URL returns the durable public URL for a stored key.
	URL(key string) string
}
