package articlegen

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/docutag/articlegen/apperrors"
	"github.com/docutag/articlegen/keywords"
	"github.com/docutag/articlegen/models"
	"github.com/docutag/articlegen/slug"
)

// DefaultImageCount is the length of an image link series.
const DefaultImageCount = 10

// GlobalBrand leads every batch-wide anchor phrase.
const GlobalBrand = "MahjongWays"

var hrefPattern = regexp.MustCompile(`(?i)href\s*=\s*"([^"]+)"`)

// AnchorOptions overrides the generator's link settings for one call.
// Zero values keep the configured setting.
type AnchorOptions struct {
	BaseURL       string
	Suffix        string
	SlugLimit     int
	SlugTolerance *int
}

func (g *Generator) resolveAnchorOptions(o AnchorOptions) AnchorOptions {
	if o.BaseURL == "" {
		o.BaseURL = g.config.BaseURL
	}
	if o.Suffix == "" {
		o.Suffix = g.config.Suffix
	}
	if o.SlugLimit <= 0 {
		o.SlugLimit = g.config.SlugLimit
	}
	if o.SlugTolerance == nil || *o.SlugTolerance < 0 {
		tol := g.config.SlugTolerance
		o.SlugTolerance = &tol
	}
	return o
}

// Link returns the URL a title's anchor points at.
func (g *Generator) Link(title string, o AnchorOptions) string {
	o = g.resolveAnchorOptions(o)
	return slug.JoinURL(o.BaseURL, slug.Smart(title, o.SlugLimit, *o.SlugTolerance)+o.Suffix)
}

// MakeAnchors builds one anchor per title, phrased from the title's own keywords.
func (g *Generator) MakeAnchors(ctx context.Context, titles []string, o AnchorOptions) ([]models.AnchorRecord, error) {
	return g.makeAnchors(ctx, "articlegen.MakeAnchors", titles, o, func(title string) []string {
		return keywords.Extract(title, g.config.MinWords, g.config.MaxWords)
	})
}

// MakeGlobalAnchors builds one anchor per title, all sharing the phrase
// "MahjongWays kw1 kw2" made of the most frequent words across titles.
func (g *Generator) MakeGlobalAnchors(ctx context.Context, titles []string, o AnchorOptions) ([]models.AnchorRecord, error) {
	phrase := append([]string{GlobalBrand}, keywords.TopTerms(titles, g.config.GlobalTerms)...)
	return g.makeAnchors(ctx, "articlegen.MakeGlobalAnchors", titles, o, func(string) []string {
		return phrase
	})
}

func (g *Generator) makeAnchors(ctx context.Context, name string, titles []string, o AnchorOptions, phraseFor func(string) []string) ([]models.AnchorRecord, error) {
	_, span := g.tracer.Start(ctx, name)
	defer span.End()

	o = g.resolveAnchorOptions(o)
	if strings.TrimSpace(o.BaseURL) == "" {
		return nil, apperrors.EmptyInput("base URL is required")
	}

	var cleaned []string
	for _, t := range titles {
		if t = strings.TrimSpace(t); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	if len(cleaned) == 0 {
		return nil, apperrors.EmptyInput("no titles supplied")
	}

	records := make([]models.AnchorRecord, 0, len(cleaned))
	for _, title := range cleaned {
		s := slug.Smart(title, o.SlugLimit, *o.SlugTolerance)
		link := slug.JoinURL(o.BaseURL, s+o.Suffix)
		words := phraseFor(title)
		phrase := strings.Join(words, " ")

		records = append(records, models.AnchorRecord{
			Title:    title,
			Slug:     s,
			URL:      link,
			Phrase:   phrase,
			Keywords: words,
			Markup:   AnchorMarkup(link, phrase),
		})
	}

	span.SetAttributes(attribute.Int("articlegen.anchors", len(records)))
	g.recorder.AddAnchors(len(records))
	g.logger.Debug("anchors generated", "count", len(records), "base_url", o.BaseURL)
	return records, nil
}

// AnchorMarkup renders <a href="href">text</a> with both parts HTML-escaped.
func AnchorMarkup(href, text string) string {
	a := &html.Node{
		Type:     html.ElementNode,
		Data:     "a",
		DataAtom: atom.A,
		Attr:     []html.Attribute{{Key: "href", Val: href}},
	}
	a.AppendChild(&html.Node{Type: html.TextNode, Data: text})

	var sb strings.Builder
	if err := html.Render(&sb, a); err != nil {
		return fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(href), html.EscapeString(text))
	}
	return sb.String()
}

// Links returns the URLs of records.
func Links(records []models.AnchorRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.URL
	}
	return out
}

// ExtractLinks returns the href value of each anchor line. Lines without a
// quoted href attribute are skipped.
func ExtractLinks(lines []string) []string {
	var out []string
	for _, line := range lines {
		m := hrefPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if link := strings.TrimSpace(html.UnescapeString(m[1])); link != "" {
			out = append(out, link)
		}
	}
	return out
}

// ImageLinks returns domain/baseName1ext through domain/baseNameNext.
// A count below one yields DefaultImageCount links.
func ImageLinks(domain, baseName, ext string, count int) ([]string, error) {
	domain = strings.TrimSpace(domain)
	baseName = strings.TrimSpace(baseName)
	ext = strings.TrimSpace(ext)

	var missing []string
	for _, f := range []struct{ name, value string }{
		{"domain", domain}, {"base_name", baseName}, {"ext", ext},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.EmptyInput("image link fields are required: " + strings.Join(missing, ", ")).
			WithDetails(missing)
	}

	if count < 1 {
		count = DefaultImageCount
	}
	if !strings.HasSuffix(domain, "/") {
		domain += "/"
	}

	out := make([]string, count)
	for i := range out {
		out[i] = domain + baseName + strconv.Itoa(i+1) + ext
	}
	return out, nil
}
