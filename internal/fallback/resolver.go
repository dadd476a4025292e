package fallback

import (
	"strings"

	"tweet-takeaways/internal/observability/metrics"
)

// Resolver maps categories to public image URLs.
type Resolver struct {
	images   map[Category]string
	rotation *Rotation
	baseURL  string
}

// NewResolver builds a Resolver. images must contain CategoryWeird; paths are
// prefixed with baseURL (which may be empty for relative paths).
func NewResolver(images map[Category]string, rotation *Rotation, baseURL string) *Resolver {
	copied := make(map[Category]string, len(images))
	for k, v := range images {
		copied[k] = v
	}
	return &Resolver{
		images:   copied,
		rotation: rotation,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

// Resolve returns the image for category. Unknown categories resolve to the
// weird-link image. The rotating category advances the shared cursor and
// falls back to its static image when no rotation images exist.
func (r *Resolver) Resolve(category Category) string {
	metrics.RecordFallbackImage(string(category))

	if category == CategoryRotating && r.rotation != nil {
		if p, ok := r.rotation.Next(); ok {
			return r.absolute(p)
		}
	}
	if p, ok := r.images[category]; ok && p != "" {
		return r.absolute(p)
	}
	return r.absolute(r.images[CategoryWeird])
}

func (r *Resolver) absolute(p string) string {
	if p == "" || strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		return p
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return r.baseURL + p
}
