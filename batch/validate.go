package batch

import (
	"github.com/docutag/articlegen/apperrors"
	"github.com/docutag/articlegen/models"
	"github.com/docutag/articlegen/render"
)

// Input is the raw material of one generation run.
type Input struct {
	Template     string
	Placeholders render.Placeholders
	Titles       []string
	Links        []string
	Images       []string
	// Bodies are parsed body blocks; only read when the body placeholder is set.
	Bodies []string
}

// Plan is validated input ready for rendering.
type Plan struct {
	Template *render.Template
	Items    []models.BatchItem
}

// Validate checks the whole input before any row is rendered: the template
// and placeholders first, then that every list has the same length n >= 1.
// The first structural problem found is returned; a length mismatch reports
// every list's length.
func Validate(in Input) (*Plan, error) {
	tmpl, err := render.Parse(in.Template, in.Placeholders)
	if err != nil {
		return nil, err
	}

	lengths := []apperrors.ListLength{
		{Name: "titles", Length: len(in.Titles)},
		{Name: "links", Length: len(in.Links)},
		{Name: "images", Length: len(in.Images)},
	}
	if in.Placeholders.UsesBody() {
		lengths = append(lengths, apperrors.ListLength{Name: "bodies", Length: len(in.Bodies)})
	}

	n := len(in.Titles)
	if n == 0 {
		return nil, apperrors.EmptyInput("no titles supplied").WithDetails(lengths)
	}
	for _, l := range lengths {
		if l.Length != n {
			return nil, apperrors.BatchLengthMismatch(lengths)
		}
	}

	items := make([]models.BatchItem, n)
	for i := range items {
		items[i] = models.BatchItem{
			Title: in.Titles[i],
			Link:  in.Links[i],
			Image: in.Images[i],
		}
		if in.Placeholders.UsesBody() {
			items[i].Body = in.Bodies[i]
		}
	}
	return &Plan{Template: tmpl, Items: items}, nil
}
