package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/docutag/articlegen/models"
)

// Sink stores generated documents and archives
type Sink interface {
	SaveDocument(ctx context.Context, runID string, doc models.GeneratedDocument) (string, error)
	SaveArchive(ctx context.Context, runID, name string, docs []models.GeneratedDocument) (string, error)
}

// Config contains storage configuration
type Config struct {
	BasePath string // Base directory for all stored files
}

// DefaultConfig returns default storage configuration
func DefaultConfig() Config {
	return Config{
		BasePath: "./output",
	}
}

// Storage handles filesystem storage operations
type Storage struct {
	config Config
}

// New creates a new Storage instance
func New(config Config) (*Storage, error) {
	// Create base directory if it doesn't exist
	if err := os.MkdirAll(config.BasePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base storage directory: %w", err)
	}

	return &Storage{
		config: config,
	}, nil
}

// runDir returns documents/YYYY/MM/<runID> relative to the base path
func runDir(runID string, now time.Time) string {
	return filepath.Join("documents", fmt.Sprintf("%04d", now.Year()), fmt.Sprintf("%02d", int(now.Month())), runID)
}

// checkName rejects names that would escape the run directory
func checkName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid file name %q", name)
	}
	return nil
}

// SaveDocument writes a generated document under documents/YYYY/MM/<runID>/
// Returns the relative file path from the base storage directory
func (s *Storage) SaveDocument(_ context.Context, runID string, doc models.GeneratedDocument) (string, error) {
	if err := checkName(doc.Filename); err != nil {
		return "", err
	}

	relDir := runDir(runID, time.Now())
	dirPath := filepath.Join(s.config.BasePath, relDir)
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create document directory: %w", err)
	}

	relPath := filepath.Join(relDir, doc.Filename)
	if err := os.WriteFile(filepath.Join(s.config.BasePath, relPath), []byte(doc.Content), 0644); err != nil {
		return "", fmt.Errorf("failed to write document file: %w", err)
	}

	return relPath, nil
}

// SaveArchive writes docs as one zip archive under documents/YYYY/MM/<runID>/
// Returns the relative file path from the base storage directory
func (s *Storage) SaveArchive(_ context.Context, runID, name string, docs []models.GeneratedDocument) (string, error) {
	name = ArchiveName(name)
	if err := checkName(name); err != nil {
		return "", err
	}

	relDir := runDir(runID, time.Now())
	dirPath := filepath.Join(s.config.BasePath, relDir)
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	relPath := filepath.Join(relDir, name)
	f, err := os.Create(filepath.Join(s.config.BasePath, relPath))
	if err != nil {
		return "", fmt.Errorf("failed to create archive file: %w", err)
	}
	if err := WriteArchive(f, docs); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close archive file: %w", err)
	}

	return relPath, nil
}

// ReadDocument reads a stored document from the filesystem
func (s *Storage) ReadDocument(relPath string) (string, error) {
	data, err := os.ReadFile(s.GetFullPath(relPath))
	if err != nil {
		return "", fmt.Errorf("failed to read document file: %w", err)
	}

	return string(data), nil
}

// GetFullPath returns the full filesystem path for a relative path
func (s *Storage) GetFullPath(relPath string) string {
	return filepath.Join(s.config.BasePath, relPath)
}

// SaveAll stores every document of a run and returns their paths in order
func SaveAll(ctx context.Context, sink Sink, runID string, docs []models.GeneratedDocument) ([]string, error) {
	paths := make([]string, 0, len(docs))
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		p, err := sink.SaveDocument(ctx, runID, doc)
		if err != nil {
			return paths, fmt.Errorf("row %d: %w", doc.Row, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// contentTypeFromFilename returns the content type for a stored file name
func contentTypeFromFilename(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm":
		return "text/html; charset=utf-8"
	case ".zip":
		return "application/zip"
	case ".txt":
		return "text/plain; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}
