package articlegen

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docutag/articlegen/apperrors"
	"github.com/docutag/articlegen/metrics"
	"github.com/docutag/articlegen/models"
	"github.com/docutag/articlegen/render"
)

const pageTemplate = `<html><head><title>*JUDUL*</title></head>
<body><h1>*JUDUL*</h1><img src="*GAMBAR*"><p>Promo Spesial</p><a href="*LINK*">baca</a></body></html>`

var exampleTitles = []string{
	"Scatter Hitam MahjongWays RTP Live Server Thailand",
	"Bonus Cashback Kasino Online Terbaru",
}

type countingRecorder struct {
	outcomes  map[metrics.OutcomeLabel]int
	documents int
	failures  int
	anchors   int
	runs      int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{outcomes: map[metrics.OutcomeLabel]int{}}
}

func (c *countingRecorder) IncRunOutcome(o metrics.OutcomeLabel)  { c.outcomes[o]++ }
func (c *countingRecorder) ObserveRunDuration(time.Duration)      { c.runs++ }
func (c *countingRecorder) AddDocuments(n int)                    { c.documents += n }
func (c *countingRecorder) AddIntegrityFailures(n int)            { c.failures += n }
func (c *countingRecorder) AddAnchors(n int)                      { c.anchors += n }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestGenerator(t *testing.T, mutate func(*Config)) (*Generator, *countingRecorder) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.BaseURL = "https://example.com/fyp"
	cfg.Suffix = ".html"
	if mutate != nil {
		mutate(&cfg)
	}
	rec := newCountingRecorder()
	return New(cfg, WithLogger(quietLogger()), WithRecorder(rec)), rec
}

func exampleRequest() models.GenerateRequest {
	return models.GenerateRequest{
		Template: pageTemplate,
		Titles:   exampleTitles,
		Links: []string{
			"https://example.com/fyp/scatter-hitam-mahjongways-rtp-live-server-thailand.html",
			"https://example.com/fyp/bonus-cashback-kasino-online-terbaru.html",
		},
		Images: []string{"https://cdn.example.com/pola1.webp", "https://cdn.example.com/pola2.webp"},
	}
}

func boolPtr(b bool) *bool { return &b }

func TestNewAppliesDefaults(t *testing.T) {
	g := New(Config{})
	cfg := g.Config()
	assert.Equal(t, 50, cfg.SlugLimit)
	assert.Equal(t, 2, cfg.MinWords)
	assert.Equal(t, 4, cfg.MaxWords)
	assert.Equal(t, render.DefaultPlaceholders(), cfg.Placeholders)
	assert.Equal(t, "[ARTIKEL]", cfg.Markers.Start)
}

func TestGenerateEndToEnd(t *testing.T) {
	g, rec := newTestGenerator(t, nil)
	ctx := context.Background()

	anchors, err := g.MakeAnchors(ctx, exampleTitles, AnchorOptions{})
	require.NoError(t, err)
	require.Len(t, anchors, 2)

	for _, a := range anchors {
		assert.LessOrEqual(t, len(a.Slug), 62)
		assert.False(t, strings.HasSuffix(a.Slug, "-"))
		assert.GreaterOrEqual(t, len(a.Keywords), 2)
		assert.LessOrEqual(t, len(a.Keywords), 4)
	}
	assert.Contains(t, anchors[0].Keywords, "mahjongways")

	req := exampleRequest()
	req.Links = Links(anchors)

	result, err := g.Generate(ctx, req)
	require.NoError(t, err)

	_, err = uuid.Parse(result.RunID)
	assert.NoError(t, err)
	assert.True(t, result.Strict)
	require.Len(t, result.Documents, 2)
	assert.Equal(t, "scatter-hitam-mahjongways-rtp-live-server-thailand.html", result.Documents[0].Filename)
	assert.Equal(t, "bonus-cashback-kasino-online-terbaru.html", result.Documents[1].Filename)
	assert.Contains(t, result.Documents[1].Content, "<h1>Bonus Cashback Kasino Online Terbaru</h1>")
	assert.Contains(t, result.Documents[1].Content, `<img src="https://cdn.example.com/pola2.webp">`)
	assert.Empty(t, result.FailedRows())
	assert.Empty(t, result.Warnings)

	assert.Equal(t, 1, rec.outcomes[metrics.OutcomeOK])
	assert.Equal(t, 2, rec.documents)
	assert.Equal(t, 2, rec.anchors)
}

func TestGenerateStrictIntegrityFailure(t *testing.T) {
	g, rec := newTestGenerator(t, nil)

	req := exampleRequest()
	req.Titles = []string{"Scatter Hitam", "Promo Spesial"}

	result, err := g.Generate(context.Background(), req)
	require.ErrorIs(t, err, apperrors.ErrIntegrityMismatch)
	require.NotNil(t, result)
	assert.Nil(t, result.Documents, "strict mode emits nothing")
	assert.Equal(t, []int{2}, result.FailedRows())

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, []models.IntegrityVerdict{{Row: 2, Passed: false, Reason: IntegrityReason}}, appErr.Details)
	assert.Contains(t, err.Error(), "rows [2]")

	assert.Equal(t, 1, rec.outcomes[metrics.OutcomeIntegrityFailed])
	assert.Equal(t, 1, rec.failures)
	assert.Zero(t, rec.documents)
}

func TestGenerateNonStrictKeepsDocuments(t *testing.T) {
	g, _ := newTestGenerator(t, nil)

	req := exampleRequest()
	req.Titles = []string{"Promo Spesial", "Scatter Hitam"}
	req.Strict = boolPtr(false)

	result, err := g.Generate(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, result.Documents, 2)
	assert.Equal(t, []int{1}, result.FailedRows())
	assert.Equal(t, IntegrityReason, result.Verdicts[0].Reason)
	assert.True(t, result.Verdicts[1].Passed)
}

func TestGenerateRejectsStructuralErrors(t *testing.T) {
	g, rec := newTestGenerator(t, nil)

	req := exampleRequest()
	req.Titles = append(req.Titles, "Judul Ketiga")
	req.Links = append(req.Links, "https://example.com/fyp/judul-ketiga.html")

	result, err := g.Generate(context.Background(), req)
	assert.Nil(t, result)
	require.ErrorIs(t, err, apperrors.ErrBatchLengthMismatch)
	assert.Contains(t, err.Error(), "titles=3, links=3, images=2")
	assert.Equal(t, 1, rec.outcomes[metrics.OutcomeRejected])

	req = exampleRequest()
	req.Template = "<h1>*JUDUL*</h1>"
	_, err = g.Generate(context.Background(), req)
	assert.ErrorIs(t, err, apperrors.ErrMissingPlaceholder)
}

func TestGenerateFilenames(t *testing.T) {
	g, _ := newTestGenerator(t, nil)

	req := exampleRequest()
	req.Links = []string{"bukan-url", "https://example.com/fyp/"}

	result, err := g.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "artikel.html", result.Documents[0].Filename)
	assert.Equal(t, "fyp.html", result.Documents[1].Filename)
	require.Len(t, result.Warnings, 1)
	assert.True(t, strings.HasPrefix(result.Warnings[0], "row 1:"))

	req = exampleRequest()
	req.NameFromLink = boolPtr(false)
	result, err = g.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "artikel.html", result.Documents[0].Filename)
	assert.Equal(t, "artikel-2.html", result.Documents[1].Filename)
}

func TestGenerateWithBodies(t *testing.T) {
	g, _ := newTestGenerator(t, nil)

	placeholders := render.DefaultPlaceholders()
	placeholders.Body = render.DefaultBodyPlaceholder

	req := exampleRequest()
	req.Template = pageTemplate + "\n<article>*ISI*</article>"
	req.Placeholders = &placeholders
	req.Bodies = "[ARTIKEL]\n<p>isi pertama</p>\n[/ARTIKEL]\n[ARTIKEL]\n<p>isi kedua</p>\n[/ARTIKEL]\n"

	result, err := g.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Contains(t, result.Documents[1].Content, "<article><p>isi kedua</p></article>")

	req.Bodies = "[ARTIKEL]\nsatu saja\n[/ARTIKEL]"
	_, err = g.Generate(context.Background(), req)
	require.ErrorIs(t, err, apperrors.ErrBatchLengthMismatch)
	assert.Contains(t, err.Error(), "bodies=1")
}

func TestPreview(t *testing.T) {
	g, _ := newTestGenerator(t, nil)

	doc, err := g.Preview(context.Background(), exampleRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Row)
	assert.Contains(t, doc.Content, "<h1>Scatter Hitam MahjongWays RTP Live Server Thailand</h1>")

	req := exampleRequest()
	req.Titles = []string{"Promo Spesial", "Scatter Hitam"}
	_, err = g.Preview(context.Background(), req)
	assert.ErrorIs(t, err, apperrors.ErrIntegrityMismatch)
}
