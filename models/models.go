package models

import (
	"time"

	"github.com/docutag/articlegen/render"
)

// AnchorRecord is the anchor generated for one title
type AnchorRecord struct {
	Title    string   `json:"title"`
	Slug     string   `json:"slug"`
	URL      string   `json:"url"`
	Phrase   string   `json:"keyword_phrase"`
	Keywords []string `json:"keywords"`
	Markup   string   `json:"markup"` // <a href="URL">PHRASE</a>
}

// BatchItem is one row of a batch
type BatchItem struct {
	Title string `json:"title"`
	Link  string `json:"link"`
	Image string `json:"image"`
	Body  string `json:"body,omitempty"`
}

// Values returns the row as template substitutions
func (b BatchItem) Values() render.Values {
	return render.Values{Title: b.Title, Link: b.Link, Image: b.Image, Body: b.Body}
}

// GeneratedDocument is the rendered output for one row
type GeneratedDocument struct {
	Row      int    `json:"row"` // 1-based
	Filename string `json:"filename"`
	Link     string `json:"link"`
	Content  string `json:"content"`
}

// IntegrityVerdict records whether a row passed the integrity check
type IntegrityVerdict struct {
	Row    int    `json:"row"` // 1-based
	Passed bool   `json:"passed"`
	Reason string `json:"reason,omitempty"`
}

// BatchResult is the complete output of a generation run
type BatchResult struct {
	RunID          string              `json:"run_id"`
	Documents      []GeneratedDocument `json:"documents"`
	Verdicts       []IntegrityVerdict  `json:"verdicts"`
	Strict         bool                `json:"strict"`
	CreatedAt      time.Time           `json:"created_at"`
	ProcessingTime float64             `json:"processing_time_seconds"`
	Warnings       []string            `json:"warnings,omitempty"` // Non-fatal problems, e.g. malformed links
}

// FailedRows returns the 1-based rows that failed the integrity check
func (r *BatchResult) FailedRows() []int {
	var rows []int
	for _, v := range r.Verdicts {
		if !v.Passed {
			rows = append(rows, v.Row)
		}
	}
	return rows
}

// AnchorsRequest represents a request to build anchors from titles
type AnchorsRequest struct {
	Titles        []string `json:"titles" validate:"required,min=1,dive,required"`
	BaseURL       string   `json:"base_url" validate:"required"`
	Suffix        string   `json:"suffix,omitempty"`
	SlugLimit     int      `json:"slug_limit,omitempty" validate:"omitempty,min=1"`
	SlugTolerance *int     `json:"slug_tolerance,omitempty" validate:"omitempty,min=0"` // Nil uses the configured tolerance
	Global        bool     `json:"global,omitempty"`                                    // One batch-wide phrase instead of per-title phrases
}

// AnchorsResponse carries anchors and the bare links they point at
type AnchorsResponse struct {
	Anchors []AnchorRecord `json:"anchors"`
	Links   []string       `json:"links"`
}

// LinksRequest represents a request to extract links from anchor markup
type LinksRequest struct {
	Anchors []string `json:"anchors" validate:"required,min=1"`
}

// LinksResponse carries extracted links
type LinksResponse struct {
	Links []string `json:"links"`
}

// ImagesRequest represents a request for a numbered image link series
type ImagesRequest struct {
	Domain   string `json:"domain" validate:"required"`
	BaseName string `json:"base_name" validate:"required"`
	Ext      string `json:"ext" validate:"required"`
	Count    int    `json:"count,omitempty" validate:"omitempty,min=1,max=1000"`
}

// GenerateRequest represents a request to render a batch
type GenerateRequest struct {
	Template     string               `json:"template" validate:"required"`
	Titles       []string             `json:"titles" validate:"required,min=1"`
	Links        []string             `json:"links" validate:"required,min=1"`
	Images       []string             `json:"images" validate:"required,min=1"`
	Bodies       string               `json:"bodies,omitempty"` // Raw text holding [ARTIKEL] blocks
	Placeholders *render.Placeholders `json:"placeholders,omitempty"`
	Strict       *bool                `json:"strict,omitempty"`
	NameFromLink *bool                `json:"name_from_link,omitempty"`
}

// Run is a stored summary of a generation run
type Run struct {
	ID        string        `json:"id"`
	Strict    bool          `json:"strict"`
	Rows      int           `json:"rows"`
	Failed    int           `json:"failed"`
	Status    string        `json:"status"` // "ok", "integrity_failed", "rejected"
	Documents []RunDocument `json:"documents,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// RunDocument is a stored per-row record of a run
type RunDocument struct {
	Row      int    `json:"row"`
	Filename string `json:"filename"`
	Link     string `json:"link"`
	Passed   bool   `json:"passed"`
}

// Run status values
const (
	RunStatusOK              = "ok"
	RunStatusIntegrityFailed = "integrity_failed"
	RunStatusRejected        = "rejected"
)

// ErrorResponse is the JSON body of an API error
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}
