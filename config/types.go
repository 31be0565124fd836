// Package config loads generation profiles from YAML files.
package config

import (
	"github.com/docutag/articlegen/batch"
	"github.com/docutag/articlegen/render"
)

// Profile is one YAML generation profile
type Profile struct {
	BaseURL       string              `yaml:"base_url" validate:"omitempty,url"`
	Suffix        string              `yaml:"suffix"`
	SlugLimit     int                 `yaml:"slug_limit" validate:"gte=0"`
	SlugTolerance *int                `yaml:"slug_tolerance" validate:"omitempty,gte=0"`
	MinWords      int                 `yaml:"min_words" validate:"gte=0"`
	MaxWords      int                 `yaml:"max_words" validate:"gte=0"`
	GlobalTerms   int                 `yaml:"global_terms" validate:"gte=0"`
	Placeholders  render.Placeholders `yaml:"placeholders"`
	Markers       batch.Markers       `yaml:"markers"`
	Strict        *bool               `yaml:"strict"`
	NameFromLink  *bool               `yaml:"name_from_link"`
	ArchiveName   string              `yaml:"archive_name"`
	Storage       Storage             `yaml:"storage"`
}

// Storage selects where generated documents are written
type Storage struct {
	Path string `yaml:"path"`
	S3   *S3    `yaml:"s3"`
}

// S3 holds S3-compatible object storage settings.
// Credentials are read from the environment, never from the profile.
type S3 struct {
	Endpoint     string `yaml:"endpoint" validate:"omitempty,url"`
	Region       string `yaml:"region" validate:"required"`
	Bucket       string `yaml:"bucket" validate:"required"`
	Prefix       string `yaml:"prefix"`
	UsePathStyle bool   `yaml:"use_path_style"`
}
