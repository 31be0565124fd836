// Package render fills template placeholders and verifies that nothing but
// the placeholders changed.
//
// Substitution is literal and global, applied in the fixed order title, link,
// image, body. The integrity check masks the template's placeholders and the
// output's substituted values with the same per-field sentinel and compares
// the two skeletons.
package render

import (
	"fmt"
	"strings"

	"github.com/docutag/articlegen/apperrors"
)

// Default placeholder strings.
const (
	DefaultTitlePlaceholder = "*JUDUL*"
	DefaultLinkPlaceholder  = "*LINK*"
	DefaultImagePlaceholder = "*GAMBAR*"
	DefaultBodyPlaceholder  = "*ISI*"
)

// Field names, in substitution order.
const (
	FieldTitle = "title"
	FieldLink  = "link"
	FieldImage = "image"
	FieldBody  = "body"
)

// Placeholders holds the literal marker strings for each field.
// An empty Body disables the body field.
type Placeholders struct {
	Title string `json:"title" yaml:"title" validate:"required"`
	Link  string `json:"link" yaml:"link" validate:"required"`
	Image string `json:"image" yaml:"image" validate:"required"`
	Body  string `json:"body,omitempty" yaml:"body"`
}

// DefaultPlaceholders returns the standard placeholders with the body field disabled.
func DefaultPlaceholders() Placeholders {
	return Placeholders{
		Title: DefaultTitlePlaceholder,
		Link:  DefaultLinkPlaceholder,
		Image: DefaultImagePlaceholder,
	}
}

// UsesBody reports whether the body field is enabled.
func (p Placeholders) UsesBody() bool {
	return p.Body != ""
}

type field struct {
	name        string
	placeholder string
	marker      string
}

func (p Placeholders) fields() []field {
	fields := []field{
		{FieldTitle, p.Title, "\x00TITLE\x00"},
		{FieldLink, p.Link, "\x00LINK\x00"},
		{FieldImage, p.Image, "\x00IMAGE\x00"},
	}
	if p.UsesBody() {
		fields = append(fields, field{FieldBody, p.Body, "\x00BODY\x00"})
	}
	return fields
}

// Validate checks that the required placeholders are set and that no
// placeholder contains another.
func (p Placeholders) Validate() error {
	var empty []string
	for _, f := range p.fields() {
		if strings.TrimSpace(f.placeholder) == "" {
			empty = append(empty, f.name)
		}
	}
	if len(empty) > 0 {
		return apperrors.EmptyInput(fmt.Sprintf("placeholder not configured: %s", strings.Join(empty, ", "))).
			WithDetails(empty)
	}

	fields := p.fields()
	for i, a := range fields {
		for j, b := range fields {
			if i != j && strings.Contains(a.placeholder, b.placeholder) {
				return apperrors.InvalidPlaceholder(fmt.Sprintf(
					"placeholder %q for %s overlaps placeholder %q for %s",
					a.placeholder, a.name, b.placeholder, b.name))
			}
		}
	}
	return nil
}

// Missing returns every configured placeholder that does not occur in template.
func (p Placeholders) Missing(template string) []string {
	var missing []string
	for _, f := range p.fields() {
		if !strings.Contains(template, f.placeholder) {
			missing = append(missing, f.placeholder)
		}
	}
	return missing
}

// Values are the per-row substitutions.
type Values struct {
	Title string `json:"title"`
	Link  string `json:"link"`
	Image string `json:"image"`
	Body  string `json:"body,omitempty"`
}

func (v Values) get(name string) string {
	switch name {
	case FieldTitle:
		return v.Title
	case FieldLink:
		return v.Link
	case FieldImage:
		return v.Image
	case FieldBody:
		return v.Body
	}
	return ""
}

// Render replaces every occurrence of each placeholder in template with its value.
func Render(template string, p Placeholders, v Values) string {
	out := template
	for _, f := range p.fields() {
		out = strings.ReplaceAll(out, f.placeholder, v.get(f.name))
	}
	return out
}

// MaskTemplate replaces each placeholder in template with its field sentinel.
// Fields whose value is empty are masked to nothing, matching what Render
// leaves behind for them.
func MaskTemplate(template string, p Placeholders, v Values) string {
	out := template
	for _, f := range p.fields() {
		marker := f.marker
		if v.get(f.name) == "" {
			marker = ""
		}
		out = strings.ReplaceAll(out, f.placeholder, marker)
	}
	return out
}

// MaskOutput replaces each substituted value in output with its field sentinel.
func MaskOutput(output string, p Placeholders, v Values) string {
	out := output
	for _, f := range p.fields() {
		value := v.get(f.name)
		if value == "" {
			continue
		}
		out = strings.ReplaceAll(out, value, f.marker)
	}
	return out
}

// Check reports whether output differs from template only at the placeholders.
func Check(template, output string, p Placeholders, v Values) bool {
	return MaskTemplate(template, p, v) == MaskOutput(output, p, v)
}

// Template is a validated template document ready for rendering.
type Template struct {
	text         string
	placeholders Placeholders
}

// Parse validates text against p. It fails with EmptyInput for a blank
// template, InvalidPlaceholder for overlapping placeholders and
// MissingPlaceholder listing every placeholder absent from text.
func Parse(text string, p Placeholders) (*Template, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.EmptyInput("template is empty")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if missing := p.Missing(text); len(missing) > 0 {
		return nil, apperrors.MissingPlaceholders(missing)
	}
	return &Template{text: text, placeholders: p}, nil
}

// Text returns the raw template.
func (t *Template) Text() string {
	return t.text
}

// Placeholders returns the placeholders the template was parsed with.
func (t *Template) Placeholders() Placeholders {
	return t.placeholders
}

// Execute renders v and reports whether the result passes the integrity check.
func (t *Template) Execute(v Values) (string, bool) {
	out := Render(t.text, t.placeholders, v)
	return out, Check(t.text, out, t.placeholders, v)
}
