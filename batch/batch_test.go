package batch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docutag/articlegen/apperrors"
	"github.com/docutag/articlegen/render"
)

const testTemplate = `<h1>*JUDUL*</h1><a href="*LINK*"><img src="*GAMBAR*"></a>`

func TestLines(t *testing.T) {
	assert.Equal(t, []string{"satu", "dua", "tiga"}, Lines("satu\r\n\n  dua  \n\t\ntiga\n"))
	assert.Nil(t, Lines(" \n\r\n"))
	assert.Nil(t, Lines(""))
}

func TestParseBlocks(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "two blocks",
			input:    "[ARTIKEL]\n<p>satu</p>\n[/ARTIKEL]\n\n[ARTIKEL]\n<p>dua</p>\n<p>lagi</p>\n[/ARTIKEL]\n",
			expected: []string{"<p>satu</p>", "<p>dua</p>\n<p>lagi</p>"},
		},
		{
			name:     "markers with surrounding whitespace and CRLF",
			input:    "  [ARTIKEL]  \r\nisi\r\n\t[/ARTIKEL]\r\n",
			expected: []string{"isi"},
		},
		{
			name:     "empty block dropped",
			input:    "[ARTIKEL]\n   \n[/ARTIKEL]\n[ARTIKEL]\nx\n[/ARTIKEL]",
			expected: []string{"x"},
		},
		{
			name:     "text outside blocks ignored",
			input:    "catatan\n[ARTIKEL]\nx\n[/ARTIKEL]\nbuangan",
			expected: []string{"x"},
		},
		{
			name:     "unterminated block discarded",
			input:    "[ARTIKEL]\nx\n[/ARTIKEL]\n[ARTIKEL]\ny",
			expected: []string{"x"},
		},
		{
			name:     "stray end marker",
			input:    "[/ARTIKEL]\n[ARTIKEL]\nx\n[/ARTIKEL]",
			expected: []string{"x"},
		},
		{
			name:     "start marker restarts capture",
			input:    "[ARTIKEL]\nlama\n[ARTIKEL]\nbaru\n[/ARTIKEL]",
			expected: []string{"baru"},
		},
		{
			name:     "marker inside a line is content",
			input:    "[ARTIKEL]\nlihat [/ARTIKEL] di sini\n[/ARTIKEL]",
			expected: []string{"lihat [/ARTIKEL] di sini"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseBlocks(tt.input, DefaultMarkers()))
		})
	}
}

func TestParseBlocksCustomMarkers(t *testing.T) {
	got := ParseBlocks("<<<\nbody\n>>>", Markers{Start: "<<<", End: ">>>"})
	assert.Equal(t, []string{"body"}, got)
}

func TestFilenameFromLink(t *testing.T) {
	tests := []struct {
		link      string
		expected  string
		malformed bool
	}{
		{"https://example.com/scatter-hitam.html", "scatter-hitam.html", false},
		{"https://example.com/fyp/bonus-cashback", "bonus-cashback.html", false},
		{"https://example.com/a/b/page.HTM", "page.HTM", false},
		{"https://example.com/folder/", "folder.html", false},
		{"https://example.com", DefaultFilename, false},
		{"https://example.com/a%3Ab", "a-b.html", false},
		{"https://example.com/x?y=1#z", "x.html", false},
		{"bukan link", DefaultFilename, true},
		{"/relatif/saja.html", DefaultFilename, true},
		{"http://[::1", DefaultFilename, true},
	}

	for _, tt := range tests {
		t.Run(tt.link, func(t *testing.T) {
			got, err := FilenameFromLink(tt.link)
			assert.Equal(t, tt.expected, got)
			if tt.malformed {
				assert.ErrorIs(t, err, apperrors.ErrMalformedLink)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDeriverDeduplicates(t *testing.T) {
	d := NewDeriver(true)

	first, err := d.Derive("https://example.com/promo.html", 0)
	require.NoError(t, err)
	second, err := d.Derive("https://other.example.com/promo", 1)
	require.NoError(t, err)
	third, err := d.Derive("https://example.com/promo-2.html", 2)
	require.NoError(t, err)
	fourth, err := d.Derive("https://example.com/promo.html", 1)
	require.NoError(t, err)

	assert.Equal(t, "promo.html", first)
	assert.Equal(t, "promo-2.html", second, "suffixed with the 1-based row")
	assert.Equal(t, "promo-2-3.html", third)
	assert.Equal(t, "promo-2-2.html", fourth, "still colliding after suffixing")
}

func TestDeriverDefaultName(t *testing.T) {
	d := NewDeriver(false)

	var names []string
	for i, link := range []string{"https://example.com/a.html", "https://example.com/b.html", "x"} {
		name, err := d.Derive(link, i)
		require.NoError(t, err)
		names = append(names, name)
	}
	assert.Equal(t, []string{"artikel.html", "artikel-2.html", "artikel-3.html"}, names)
}

func TestDeriverMalformedLinkWarns(t *testing.T) {
	d := NewDeriver(true)
	name, err := d.Derive("::not a url", 0)
	assert.Equal(t, DefaultFilename, name)
	assert.ErrorIs(t, err, apperrors.ErrMalformedLink)
}

func validInput() Input {
	return Input{
		Template:     testTemplate,
		Placeholders: render.DefaultPlaceholders(),
		Titles:       []string{"a", "b", "c"},
		Links:        []string{"https://x/a", "https://x/b", "https://x/c"},
		Images:       []string{"1.png", "2.png", "3.png"},
	}
}

func TestValidate(t *testing.T) {
	plan, err := Validate(validInput())
	require.NoError(t, err)
	require.Len(t, plan.Items, 3)
	assert.Equal(t, "b", plan.Items[1].Title)
	assert.Equal(t, "https://x/b", plan.Items[1].Link)
	assert.Equal(t, "2.png", plan.Items[1].Image)
}

func TestValidateLengthMismatch(t *testing.T) {
	in := validInput()
	in.Images = in.Images[:2]

	_, err := Validate(in)
	require.ErrorIs(t, err, apperrors.ErrBatchLengthMismatch)

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, []apperrors.ListLength{
		{Name: "titles", Length: 3},
		{Name: "links", Length: 3},
		{Name: "images", Length: 2},
	}, appErr.Details)
	assert.Contains(t, err.Error(), "images=2")
}

func TestValidateBodies(t *testing.T) {
	in := validInput()
	in.Template = testTemplate + "*ISI*"
	in.Placeholders.Body = render.DefaultBodyPlaceholder
	in.Bodies = []string{"x", "y"}

	_, err := Validate(in)
	require.ErrorIs(t, err, apperrors.ErrBatchLengthMismatch)
	assert.Contains(t, err.Error(), "bodies=2")

	in.Bodies = append(in.Bodies, "z")
	plan, err := Validate(in)
	require.NoError(t, err)
	assert.Equal(t, "z", plan.Items[2].Body)
}

func TestValidateBodiesIgnoredWithoutPlaceholder(t *testing.T) {
	in := validInput()
	in.Bodies = []string{"only one"}

	plan, err := Validate(in)
	require.NoError(t, err)
	assert.Empty(t, plan.Items[0].Body)
}

func TestValidateStructuralErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Input)
		want   error
	}{
		{"empty template", func(in *Input) { in.Template = "" }, apperrors.ErrEmptyInput},
		{"missing placeholder", func(in *Input) { in.Template = "<h1>*JUDUL*</h1>" }, apperrors.ErrMissingPlaceholder},
		{"empty placeholder", func(in *Input) { in.Placeholders.Link = "" }, apperrors.ErrEmptyInput},
		{"overlapping placeholders", func(in *Input) { in.Placeholders.Link = "*JUDUL*X" }, apperrors.ErrInvalidPlaceholder},
		{"no rows", func(in *Input) { in.Titles, in.Links, in.Images = nil, nil, nil }, apperrors.ErrEmptyInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.modify(&in)
			_, err := Validate(in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
