package fallback_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tweet-takeaways/internal/domain/entity"
	"tweet-takeaways/internal/fallback"
)

func staticImages() map[fallback.Category]string {
	return map[fallback.Category]string{
		fallback.CategoryNews:       "/static/og/news.jpg",
		fallback.CategorySocial:     "/static/og/social.jpg",
		fallback.CategoryCookie:     "/static/og/cookie.jpg",
		fallback.CategoryGovernment: "/static/og/gov.jpg",
		fallback.CategoryRotating:   "/static/og/threads-og-image-fallback.jpg",
		fallback.CategoryWeird:      "/static/og/weirdlink.jpg",
	}
}

func TestResolver_StaticCategories(t *testing.T) {
	r := fallback.NewResolver(staticImages(), nil, "https://api.example.com/")

	tests := []struct {
		category fallback.Category
		want     string
	}{
		{fallback.CategoryNews, "https://api.example.com/static/og/news.jpg"},
		{fallback.CategorySocial, "https://api.example.com/static/og/social.jpg"},
		{fallback.CategoryCookie, "https://api.example.com/static/og/cookie.jpg"},
		{fallback.CategoryGovernment, "https://api.example.com/static/og/gov.jpg"},
		{fallback.CategoryWeird, "https://api.example.com/static/og/weirdlink.jpg"},
		{fallback.Category("unknown"), "https://api.example.com/static/og/weirdlink.jpg"},
	}
	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.category))
		})
	}
}

func TestResolver_RotatingFallsBackToStaticWhenEmpty(t *testing.T) {
	rot := fallback.NewRotation(fallback.RotationConfig{Dir: t.TempDir(), Prefix: "threads"}, nil)
	r := fallback.NewResolver(staticImages(), rot, "")

	assert.Equal(t, "/static/og/threads-og-image-fallback.jpg", r.Resolve(fallback.CategoryRotating))
}

func TestResolver_RotatingAdvances(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"threads-1.jpg", "threads-2.jpg"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), nil, 0o600))
	}
	rot := fallback.NewRotation(fallback.RotationConfig{Dir: dir, Prefix: "threads", URLPath: "/static/og"}, nil)
	r := fallback.NewResolver(staticImages(), rot, "http://localhost:8000")

	assert.Equal(t, "http://localhost:8000/static/og/threads-1.jpg", r.Resolve(fallback.CategoryRotating))
	assert.Equal(t, "http://localhost:8000/static/og/threads-2.jpg", r.Resolve(fallback.CategoryRotating))
	assert.Equal(t, "http://localhost:8000/static/og/threads-1.jpg", r.Resolve(fallback.CategoryRotating))
}

func TestResolver_AbsoluteImagePathsUntouched(t *testing.T) {
	images := staticImages()
	images[fallback.CategoryNews] = "https://cdn.example.com/news.jpg"
	r := fallback.NewResolver(images, nil, "https://api.example.com")

	assert.Equal(t, "https://cdn.example.com/news.jpg", r.Resolve(fallback.CategoryNews))
}

func TestForPolicy(t *testing.T) {
	assert.Equal(t, fallback.CategoryNews, fallback.ForPolicy(entity.PolicyNews))
	assert.Equal(t, fallback.CategorySocial, fallback.ForPolicy(entity.PolicySocial))
	assert.Equal(t, fallback.CategoryCookie, fallback.ForPolicy(entity.PolicyCookieGated))
	assert.Equal(t, fallback.CategoryGovernment, fallback.ForPolicy(entity.PolicyGovernment))
	assert.Equal(t, fallback.CategoryWeird, fallback.ForPolicy(entity.PolicyNone))
}
