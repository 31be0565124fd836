package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/docutag/articlegen"
	"github.com/docutag/articlegen/apperrors"
	"github.com/docutag/articlegen/batch"
	"github.com/docutag/articlegen/render"
	"github.com/docutag/articlegen/slug"
	"github.com/docutag/articlegen/storage"
	"github.com/docutag/articlegen/validation"
)

// Load reads, defaults and validates the profile at path
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	profile, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", path, err)
	}

	slog.Debug("loaded profile", "path", path)
	return profile, nil
}

// Parse decodes, defaults and validates a YAML profile
func Parse(data []byte) (*Profile, error) {
	var profile Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, apperrors.InvalidConfig("failed to parse YAML", nil).WithCause(err)
	}

	setDefaults(&profile)

	if err := validate(&profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// setDefaults applies default values to a profile
func setDefaults(p *Profile) {
	defaults := articlegen.DefaultConfig()

	if p.SlugLimit == 0 {
		p.SlugLimit = slug.DefaultLimit
	}
	if p.SlugTolerance == nil {
		tol := slug.DefaultTolerance
		p.SlugTolerance = &tol
	}
	if p.MinWords == 0 {
		p.MinWords = defaults.MinWords
	}
	if p.MaxWords == 0 {
		p.MaxWords = max(p.MinWords, defaults.MaxWords)
	}
	if p.GlobalTerms == 0 {
		p.GlobalTerms = defaults.GlobalTerms
	}
	if p.Placeholders == (render.Placeholders{}) {
		p.Placeholders = render.DefaultPlaceholders()
	}
	if p.Markers == (batch.Markers{}) {
		p.Markers = batch.DefaultMarkers()
	}
	if p.Strict == nil {
		p.Strict = &defaults.Strict
	}
	if p.NameFromLink == nil {
		p.NameFromLink = &defaults.NameFromLink
	}
	p.ArchiveName = storage.ArchiveName(p.ArchiveName)
	if p.Storage.Path == "" {
		p.Storage.Path = storage.DefaultConfig().BasePath
	}
}

// validate checks struct tags first, then the rules tags cannot express
func validate(p *Profile) error {
	if err := validation.New().Validate(p); err != nil {
		var appErr *apperrors.Error
		if apperrors.As(err, &appErr) {
			return apperrors.InvalidConfig("invalid profile", appErr.Details)
		}
		return err
	}

	if p.MaxWords < p.MinWords {
		return apperrors.InvalidConfig("max_words must not be less than min_words",
			map[string]string{"max_words": fmt.Sprintf("must be at least %d", p.MinWords)})
	}
	if err := p.Placeholders.Validate(); err != nil {
		return apperrors.InvalidConfig("invalid placeholders", nil).WithCause(err)
	}
	if strings.TrimSpace(p.Markers.Start) == "" || strings.TrimSpace(p.Markers.End) == "" {
		return apperrors.InvalidConfig("markers need both start and end", nil)
	}
	if p.Markers.Start == p.Markers.End {
		return apperrors.InvalidConfig("start and end markers must differ", nil)
	}
	return nil
}

// GeneratorConfig converts the profile to generator configuration
func (p *Profile) GeneratorConfig() articlegen.Config {
	cfg := articlegen.DefaultConfig()
	cfg.BaseURL = p.BaseURL
	cfg.Suffix = p.Suffix
	cfg.SlugLimit = p.SlugLimit
	if p.SlugTolerance != nil {
		cfg.SlugTolerance = *p.SlugTolerance
	}
	cfg.MinWords = p.MinWords
	cfg.MaxWords = p.MaxWords
	cfg.GlobalTerms = p.GlobalTerms
	cfg.Placeholders = p.Placeholders
	cfg.Markers = p.Markers
	if p.Strict != nil {
		cfg.Strict = *p.Strict
	}
	if p.NameFromLink != nil {
		cfg.NameFromLink = *p.NameFromLink
	}
	return cfg
}

// S3Config returns object storage settings with credentials taken from the
// AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY environment variables.
// ok is false when the profile has no s3 section.
func (p *Profile) S3Config() (cfg storage.S3Config, ok bool) {
	if p.Storage.S3 == nil {
		return storage.S3Config{}, false
	}
	s := p.Storage.S3
	return storage.S3Config{
		Endpoint:        s.Endpoint,
		Region:          s.Region,
		Bucket:          s.Bucket,
		Prefix:          s.Prefix,
		AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		UsePathStyle:    s.UsePathStyle,
	}, true
}
