// Package oggen is the build-time Open Graph generator: for every published
// blog post it stamps a copy of the built SPA shell with post-specific
// meta tags and writes it to dist/blog/<slug>/index.html, so crawlers that
// never run JavaScript still see correct previews.
package oggen

import (
	"context"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/swairua/kennedynespot/internal/config"
	"github.com/swairua/kennedynespot/internal/entities"
	"github.com/swairua/kennedynespot/internal/logger"
)

type PostSource interface {
	ListPublishedPosts(ctx context.Context) ([]entities.BlogPost, error)
}

type Generator struct {
	posts PostSource
	site  config.SiteConfig
	log   *logger.Logger

	// overridable in tests
	now func() time.Time
}

func New(posts PostSource, site config.SiteConfig, log *logger.Logger) *Generator {
	if site.DistDir == "" {
		site.DistDir = "dist"
	}
	return &Generator{posts: posts, site: site, log: log, now: time.Now}
}

// Run generates every post page. Failures log and return early without an
// error: the generator must never fail the surrounding production build.
func (g *Generator) Run(ctx context.Context) error {
	posts, err := g.posts.ListPublishedPosts(ctx)
	if err != nil {
		g.log.Error("og: fetching posts failed", "err", err)
		return nil
	}
	if len(posts) == 0 {
		g.log.Info("og: no published posts found")
		return nil
	}

	templatePath := filepath.Join(g.site.DistDir, "index.html")
	template, err := os.ReadFile(templatePath)
	if err != nil {
		g.log.Error("og: template not readable", "path", templatePath, "err", err)
		return nil
	}

	g.log.Info("og: generating post pages", "posts", len(posts))

	for i := range posts {
		if err := g.generateOne(string(template), &posts[i]); err != nil {
			g.log.Error("og: generation failed", "slug", posts[i].Slug, "err", err)
			continue
		}
		g.log.Info("og: generated", "path", "/blog/"+posts[i].Slug+"/index.html")
	}
	return nil
}

var (
	reTitle        = regexp.MustCompile(`(?i)<title[^>]*>.*?</title>`)
	reDescription  = regexp.MustCompile(`(?i)<meta name="description"[^>]*>`)
	reOGTitle      = regexp.MustCompile(`(?i)<meta property="og:title"[^>]*>`)
	reOGDesc       = regexp.MustCompile(`(?i)<meta property="og:description"[^>]*>`)
	reOGImage      = regexp.MustCompile(`(?i)<meta property="og:image"[^>]*>`)
	reOGURL        = regexp.MustCompile(`(?i)<meta property="og:url"[^>]*>`)
	reOGType       = regexp.MustCompile(`(?i)<meta property="og:type"[^>]*>`)
	reTwitterImage = regexp.MustCompile(`(?i)<meta name="twitter:image"[^>]*>`)
	reCanonical    = regexp.MustCompile(`(?i)<link rel="canonical"[^>]*>`)
)

func (g *Generator) generateOne(template string, post *entities.BlogPost) error {
	ogTitle := firstNonEmpty(deref(post.OGTitle), deref(post.MetaTitle), post.Title)
	ogDescription := firstNonEmpty(deref(post.OGDescription), deref(post.MetaDescription), deref(post.Excerpt))
	ogImage := g.absoluteURL(firstNonEmpty(deref(post.OGImageURL), deref(post.FeaturedImageURL)))
	ogURL := strings.TrimRight(g.site.BaseURL, "/") + "/blog/" + post.Slug

	publishedTime := g.now().UTC().Format(time.RFC3339)
	if post.PublishedAt != nil {
		publishedTime = post.PublishedAt.UTC().Format(time.RFC3339)
	}

	page := template
	page = replaceFirst(page, reTitle,
		fmt.Sprintf("<title>%s | KenneDyne spot</title>", html.EscapeString(ogTitle)))
	page = replaceFirst(page, reDescription,
		fmt.Sprintf(`<meta name="description" content="%s" />`, html.EscapeString(ogDescription)))
	page = replaceFirst(page, reOGTitle,
		fmt.Sprintf(`<meta property="og:title" content="%s" />`, html.EscapeString(ogTitle)))
	page = replaceFirst(page, reOGDesc,
		fmt.Sprintf(`<meta property="og:description" content="%s" />`, html.EscapeString(ogDescription)))
	page = replaceFirst(page, reOGImage,
		fmt.Sprintf(`<meta property="og:image" content="%s" />`, ogImage))
	page = replaceFirst(page, reOGURL,
		fmt.Sprintf(`<meta property="og:url" content="%s" />`, ogURL))
	page = replaceFirst(page, reOGType,
		`<meta property="og:type" content="article" />`)
	page = replaceFirst(page, reTwitterImage,
		fmt.Sprintf(`<meta name="twitter:image" content="%s" />`, ogImage))
	page = replaceFirst(page, reCanonical,
		fmt.Sprintf(`<link rel="canonical" href="%s" />`, ogURL))

	// Templates built without these tags get them appended to <head>.
	page = ensureHeadTag(page, "og:type",
		`<meta property="og:type" content="article" />`)
	page = ensureHeadTag(page, "article:published_time",
		fmt.Sprintf(`<meta property="article:published_time" content="%s" />`, publishedTime))
	page = ensureHeadTag(page, "twitter:title",
		fmt.Sprintf(`<meta name="twitter:title" content="%s" />`, html.EscapeString(ogTitle)))
	page = ensureHeadTag(page, "twitter:description",
		fmt.Sprintf(`<meta name="twitter:description" content="%s" />`, html.EscapeString(ogDescription)))

	outDir := filepath.Join(g.site.DistDir, "blog", post.Slug)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", outDir, err)
	}
	outPath := filepath.Join(outDir, "index.html")
	if err := os.WriteFile(outPath, []byte(page), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	return nil
}

// absoluteURL resolves the og:image fallback chain; relative inputs are
// anchored at the site base, empty inputs fall back to the default image.
func (g *Generator) absoluteURL(input string) string {
	base := strings.TrimRight(g.site.BaseURL, "/")
	if input == "" {
		input = g.site.DefaultOGImage
	}
	if input == "" {
		return base + "/og/og-default.jpg"
	}
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		return input
	}
	if !strings.HasPrefix(input, "/") {
		input = "/" + input
	}
	return base + input
}

// replaceFirst substitutes only the first match so a tag repeated in the
// template body is left alone.
func replaceFirst(s string, re *regexp.Regexp, repl string) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + repl + s[loc[1]:]
}

// ensureHeadTag appends tag before </head> when marker is absent anywhere in
// the page.
func ensureHeadTag(page, marker, tag string) string {
	if strings.Contains(page, marker) {
		return page
	}
	return strings.Replace(page, "</head>", "  "+tag+"\n</head>", 1)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
