package storage

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"

	"github.com/docutag/articlegen/models"
)

// DefaultArchiveName is used when no archive name is configured
const DefaultArchiveName = "artikel-output.zip"

// ArchiveName trims name, falls back to DefaultArchiveName and makes sure it ends in .zip
func ArchiveName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultArchiveName
	}
	if !strings.HasSuffix(strings.ToLower(name), ".zip") {
		name += ".zip"
	}
	return name
}

// WriteArchive writes docs to w as a zip archive, one entry per document
func WriteArchive(w io.Writer, docs []models.GeneratedDocument) error {
	zw := zip.NewWriter(w)
	modified := time.Now()

	for _, doc := range docs {
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     doc.Filename,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			zw.Close()
			return fmt.Errorf("failed to add %s to archive: %w", doc.Filename, err)
		}
		if _, err := io.WriteString(fw, doc.Content); err != nil {
			zw.Close()
			return fmt.Errorf("failed to write %s to archive: %w", doc.Filename, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	return nil
}
