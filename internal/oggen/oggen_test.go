package oggen

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swairua/kennedynespot/internal/config"
	"github.com/swairua/kennedynespot/internal/entities"
	"github.com/swairua/kennedynespot/internal/logger"
)

const template = `<!DOCTYPE html>
<html>
<head>
<title>KenneDyne spot</title>
<meta name="description" content="default description" />
<meta property="og:title" content="default" />
<meta property="og:description" content="default" />
<meta property="og:image" content="https://kennedynespot.com/og/og-default.jpg" />
<meta property="og:url" content="https://kennedynespot.com/" />
<meta property="og:type" content="website" />
<meta name="twitter:image" content="https://kennedynespot.com/og/og-default.jpg" />
<link rel="canonical" href="https://kennedynespot.com/" />
</head>
<body><p>og:title appears in prose too</p></body>
</html>`

type fakePosts struct {
	posts []entities.BlogPost
	err   error
}

func (f *fakePosts) ListPublishedPosts(ctx context.Context) ([]entities.BlogPost, error) {
	return f.posts, f.err
}

func strPtr(s string) *string { return &s }

func sitePost() entities.BlogPost {
	published := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return entities.BlogPost{
		Slug:          "drive-strategy",
		Title:         "The DRIVE Strategy",
		Excerpt:       strPtr("A structured approach to trading."),
		OGTitle:       strPtr("DRIVE: structure over signals"),
		OGDescription: strPtr("Why structure beats signals."),
		OGImageURL:    strPtr("/images/drive.webp"),
		Published:     true,
		Status:        "published",
		PublishedAt:   &published,
	}
}

func newGenerator(t *testing.T, posts *fakePosts) (*Generator, string) {
	t.Helper()
	dist := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dist, "index.html"), []byte(template), 0o644))

	site := config.SiteConfig{BaseURL: "https://kennedynespot.com", DistDir: dist}
	return New(posts, site, logger.NewNop()), dist
}

func TestRunGeneratesPostPage(t *testing.T) {
	g, dist := newGenerator(t, &fakePosts{posts: []entities.BlogPost{sitePost()}})

	require.NoError(t, g.Run(context.Background()))

	out, err := os.ReadFile(filepath.Join(dist, "blog", "drive-strategy", "index.html"))
	require.NoError(t, err)
	page := string(out)

	assert.Contains(t, page, "<title>DRIVE: structure over signals | KenneDyne spot</title>")
	assert.Contains(t, page, `<meta property="og:title" content="DRIVE: structure over signals" />`)
	assert.Contains(t, page, `<meta property="og:description" content="Why structure beats signals." />`)
	assert.Contains(t, page, `<meta property="og:image" content="https://kennedynespot.com/images/drive.webp" />`)
	assert.Contains(t, page, `<meta property="og:url" content="https://kennedynespot.com/blog/drive-strategy" />`)
	assert.Contains(t, page, `<meta property="og:type" content="article" />`)
	assert.Contains(t, page, `<link rel="canonical" href="https://kennedynespot.com/blog/drive-strategy" />`)
	assert.Contains(t, page, `<meta property="article:published_time" content="2025-06-01T12:00:00Z" />`)
	assert.Contains(t, page, `<meta name="twitter:title" content="DRIVE: structure over signals" />`)

	// Only the head tag is substituted; the body mention is untouched.
	assert.Contains(t, page, "og:title appears in prose too")
}

func TestRunIsIdempotent(t *testing.T) {
	g, dist := newGenerator(t, &fakePosts{posts: []entities.BlogPost{sitePost()}})
	outPath := filepath.Join(dist, "blog", "drive-strategy", "index.html")

	require.NoError(t, g.Run(context.Background()))
	first, err := os.ReadFile(outPath)
	require.NoError(t, err)

	require.NoError(t, g.Run(context.Background()))
	second, err := os.ReadFile(outPath)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRunFallbackChain(t *testing.T) {
	post := sitePost()
	post.OGTitle = nil
	post.MetaTitle = nil
	post.OGDescription = nil
	post.MetaDescription = nil
	post.OGImageURL = nil
	post.FeaturedImageURL = strPtr("https://cdn.example.com/featured.webp")

	g, dist := newGenerator(t, &fakePosts{posts: []entities.BlogPost{post}})
	require.NoError(t, g.Run(context.Background()))

	out, err := os.ReadFile(filepath.Join(dist, "blog", post.Slug, "index.html"))
	require.NoError(t, err)
	page := string(out)

	// title falls back to the post title, description to the excerpt,
	// image to the featured image (already absolute, kept as-is).
	assert.Contains(t, page, "<title>The DRIVE Strategy | KenneDyne spot</title>")
	assert.Contains(t, page, `content="A structured approach to trading."`)
	assert.Contains(t, page, `<meta property="og:image" content="https://cdn.example.com/featured.webp" />`)
}

func TestRunDefaultImageWhenNothingSet(t *testing.T) {
	post := sitePost()
	post.OGImageURL = nil
	post.FeaturedImageURL = nil

	g, dist := newGenerator(t, &fakePosts{posts: []entities.BlogPost{post}})
	require.NoError(t, g.Run(context.Background()))

	out, err := os.ReadFile(filepath.Join(dist, "blog", post.Slug, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(out),
		`<meta property="og:image" content="https://kennedynespot.com/og/og-default.jpg" />`)
}

func TestRunMissingTemplateDoesNotFailBuild(t *testing.T) {
	dist := t.TempDir() // no index.html
	site := config.SiteConfig{BaseURL: "https://kennedynespot.com", DistDir: dist}
	g := New(&fakePosts{posts: []entities.BlogPost{sitePost()}}, site, logger.NewNop())

	assert.NoError(t, g.Run(context.Background()))

	_, err := os.Stat(filepath.Join(dist, "blog"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunFetchErrorDoesNotFailBuild(t *testing.T) {
	g, dist := newGenerator(t, &fakePosts{err: errors.New("db down")})

	assert.NoError(t, g.Run(context.Background()))

	entries, err := os.ReadDir(dist)
	require.NoError(t, err)
	// Only the template remains; nothing was generated.
	require.Len(t, entries, 1)
	assert.False(t, strings.Contains(entries[0].Name(), "blog"))
}

func TestEscapesHTMLInTitles(t *testing.T) {
	post := sitePost()
	post.OGTitle = strPtr(`Risk < Reward & "discipline"`)

	g, dist := newGenerator(t, &fakePosts{posts: []entities.BlogPost{post}})
	require.NoError(t, g.Run(context.Background()))

	out, err := os.ReadFile(filepath.Join(dist, "blog", post.Slug, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "Risk &lt; Reward &amp;")
	assert.NotContains(t, string(out), `<title>Risk < Reward`)
}
