// Package articlegen turns article titles into anchors and fills an HTML
// template into one document per row, checking every document for edits
// outside the placeholders.
package articlegen

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/docutag/articlegen/apperrors"
	"github.com/docutag/articlegen/batch"
	"github.com/docutag/articlegen/keywords"
	"github.com/docutag/articlegen/metrics"
	"github.com/docutag/articlegen/models"
	"github.com/docutag/articlegen/render"
	"github.com/docutag/articlegen/slug"
)

// IntegrityReason is the verdict reason recorded for rows that fail the integrity check.
const IntegrityReason = "integrity mismatch"

// Config contains generator configuration
type Config struct {
	BaseURL       string              // Base URL anchors link under
	Suffix        string              // Appended to each slug, e.g. ".html"
	SlugLimit     int                 // Preferred maximum slug length
	SlugTolerance int                 // How far past SlugLimit a cut may move to finish a word
	MinWords      int                 // Minimum anchor phrase length
	MaxWords      int                 // Maximum anchor phrase length
	GlobalTerms   int                 // Batch-wide keywords used by global anchors
	Placeholders  render.Placeholders // Template placeholders
	Markers       batch.Markers       // Body block markers
	Strict        bool                // Abort the whole batch on any integrity failure
	NameFromLink  bool                // Derive filenames from links instead of the default name
}

// DefaultConfig returns default generator configuration
func DefaultConfig() Config {
	return Config{
		SlugLimit:     slug.DefaultLimit,
		SlugTolerance: slug.DefaultTolerance,
		MinWords:      keywords.DefaultMinWords,
		MaxWords:      keywords.DefaultMaxWords,
		GlobalTerms:   2,
		Placeholders:  render.DefaultPlaceholders(),
		Markers:       batch.DefaultMarkers(),
		Strict:        true,
		NameFromLink:  true,
	}
}

// Generator builds anchors and renders document batches
type Generator struct {
	config   Config
	logger   *slog.Logger
	recorder metrics.Recorder
	tracer   trace.Tracer
}

// Option configures a Generator
type Option func(*Generator)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithRecorder sets the metrics recorder. The default records nothing.
func WithRecorder(r metrics.Recorder) Option {
	return func(g *Generator) {
		if r != nil {
			g.recorder = r
		}
	}
}

// New creates a new Generator instance.
// Zero numeric fields, placeholders and markers fall back to DefaultConfig;
// SlugTolerance, Strict and NameFromLink are taken as given.
func New(config Config, opts ...Option) *Generator {
	defaults := DefaultConfig()
	if config.SlugLimit <= 0 {
		config.SlugLimit = defaults.SlugLimit
	}
	if config.SlugTolerance < 0 {
		config.SlugTolerance = defaults.SlugTolerance
	}
	if config.MinWords <= 0 {
		config.MinWords = defaults.MinWords
	}
	if config.MaxWords < config.MinWords {
		config.MaxWords = max(config.MinWords, defaults.MaxWords)
	}
	if config.GlobalTerms <= 0 {
		config.GlobalTerms = defaults.GlobalTerms
	}
	if config.Placeholders == (render.Placeholders{}) {
		config.Placeholders = defaults.Placeholders
	}
	if config.Markers == (batch.Markers{}) {
		config.Markers = defaults.Markers
	}

	g := &Generator{
		config:   config,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
		tracer:   otel.Tracer("articlegen"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Config returns the effective configuration
func (g *Generator) Config() Config {
	return g.config
}

// Generate renders one document per row of req.
//
// Structural problems (empty template, missing placeholders, mismatched list
// lengths) abort before any row is rendered. Every row is checked for
// integrity. In strict mode a failing batch returns a result carrying the
// verdicts but no documents, together with an IntegrityMismatch error
// listing every failing row. Otherwise documents are returned alongside the
// verdicts.
func (g *Generator) Generate(ctx context.Context, req models.GenerateRequest) (*models.BatchResult, error) {
	start := time.Now()
	_, span := g.tracer.Start(ctx, "articlegen.Generate")
	defer span.End()
	defer func() { g.recorder.ObserveRunDuration(time.Since(start)) }()

	placeholders := g.config.Placeholders
	if req.Placeholders != nil {
		placeholders = *req.Placeholders
	}
	strict := g.config.Strict
	if req.Strict != nil {
		strict = *req.Strict
	}
	nameFromLink := g.config.NameFromLink
	if req.NameFromLink != nil {
		nameFromLink = *req.NameFromLink
	}

	var bodies []string
	if placeholders.UsesBody() {
		bodies = batch.ParseBlocks(req.Bodies, g.config.Markers)
	}

	plan, err := batch.Validate(batch.Input{
		Template:     req.Template,
		Placeholders: placeholders,
		Titles:       req.Titles,
		Links:        req.Links,
		Images:       req.Images,
		Bodies:       bodies,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		g.recorder.IncRunOutcome(metrics.OutcomeRejected)
		g.logger.Warn("batch rejected", "code", apperrors.CodeOf(err), "error", err)
		return nil, err
	}

	result := &models.BatchResult{
		RunID:     uuid.New().String(),
		Strict:    strict,
		CreatedAt: start.UTC(),
		Documents: make([]models.GeneratedDocument, 0, len(plan.Items)),
		Verdicts:  make([]models.IntegrityVerdict, 0, len(plan.Items)),
	}
	span.SetAttributes(
		attribute.String("articlegen.run_id", result.RunID),
		attribute.Int("articlegen.rows", len(plan.Items)),
		attribute.Bool("articlegen.strict", strict),
	)

	deriver := batch.NewDeriver(nameFromLink)
	for i, item := range plan.Items {
		content, ok := plan.Template.Execute(item.Values())

		verdict := models.IntegrityVerdict{Row: i + 1, Passed: ok}
		if !ok {
			verdict.Reason = IntegrityReason
		}
		result.Verdicts = append(result.Verdicts, verdict)

		filename, warn := deriver.Derive(item.Link, i)
		if warn != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: %v", i+1, warn))
			g.logger.Warn("using default filename", "run_id", result.RunID, "row", i+1, "error", warn)
		}

		result.Documents = append(result.Documents, models.GeneratedDocument{
			Row:      i + 1,
			Filename: filename,
			Link:     item.Link,
			Content:  content,
		})
	}
	result.ProcessingTime = time.Since(start).Seconds()

	failed := result.FailedRows()
	g.recorder.AddIntegrityFailures(len(failed))
	span.SetAttributes(attribute.Int("articlegen.integrity_failures", len(failed)))

	if len(failed) > 0 {
		g.recorder.IncRunOutcome(metrics.OutcomeIntegrityFailed)
		g.logger.Warn("integrity check failed", "run_id", result.RunID, "rows", failed, "strict", strict)

		if strict {
			result.Documents = nil
			err := apperrors.IntegrityMismatch(failed, failedVerdicts(result.Verdicts))
			span.RecordError(err)
			span.SetStatus(codes.Error, "integrity check failed")
			return result, err
		}
	} else {
		g.recorder.IncRunOutcome(metrics.OutcomeOK)
	}

	g.recorder.AddDocuments(len(result.Documents))
	g.logger.Info("batch generated",
		"run_id", result.RunID,
		"documents", len(result.Documents),
		"duration", time.Since(start))
	return result, nil
}

// Preview renders req and returns its first document.
// It fails the same way Generate does.
func (g *Generator) Preview(ctx context.Context, req models.GenerateRequest) (*models.GeneratedDocument, error) {
	result, err := g.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(result.Documents) == 0 {
		return nil, apperrors.EmptyInput("batch produced no documents")
	}
	doc := result.Documents[0]
	return &doc, nil
}

func failedVerdicts(verdicts []models.IntegrityVerdict) []models.IntegrityVerdict {
	var out []models.IntegrityVerdict
	for _, v := range verdicts {
		if !v.Passed {
			out = append(out, v)
		}
	}
	return out
}
