package batch

import (
	"errors"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/docutag/articlegen/apperrors"
	"github.com/docutag/articlegen/slug"
)

const (
	// DefaultFilename is used when a link yields no usable name.
	DefaultFilename = "artikel.html"
	// DefaultExtension is appended to names without a document extension.
	DefaultExtension = ".html"
)

var (
	// Characters not allowed in file names on common filesystems.
	illegalFilenameChars = regexp.MustCompile(`[\\/:*?"<>|]+`)

	errNotAbsolute = errors.New("link is not an absolute URL")
)

func hasDocumentExtension(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	return ext == ".html" || ext == ".htm"
}

// FilenameFromLink derives a document name from the last path segment of link.
//
// Links without a path segment yield DefaultFilename. Links that are not
// absolute URLs also yield DefaultFilename, together with a MalformedLink
// error the caller may log; the name is usable either way.
func FilenameFromLink(link string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return DefaultFilename, apperrors.MalformedLink(link, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return DefaultFilename, apperrors.MalformedLink(link, errNotAbsolute)
	}

	var base string
	segments := strings.Split(u.Path, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != "" {
			base = segments[i]
			break
		}
	}
	if base == "" {
		return DefaultFilename, nil
	}

	if !hasDocumentExtension(base) {
		base += DefaultExtension
	}
	return illegalFilenameChars.ReplaceAllString(base, "-"), nil
}

// Deriver hands out unique document names within one batch.
// It is not safe for concurrent use; create one per run.
type Deriver struct {
	nameFromLink bool
	used         map[string]struct{}
}

// NewDeriver returns a Deriver. When nameFromLink is false every row starts
// from DefaultFilename and relies on de-duplication.
func NewDeriver(nameFromLink bool) *Deriver {
	return &Deriver{nameFromLink: nameFromLink, used: make(map[string]struct{})}
}

// Derive returns the name for the row at the 0-based index. A name already
// handed out is suffixed with -{index+1} before its extension. The returned
// error is only ever a MalformedLink warning.
func (d *Deriver) Derive(link string, index int) (string, error) {
	name := DefaultFilename
	var warn error
	if d.nameFromLink {
		name, warn = FilenameFromLink(link)
	}

	if _, taken := d.used[name]; taken {
		ext := path.Ext(name)
		stem := slug.MakeUnique(strings.TrimSuffix(name, ext), index+1)
		name = stem + ext
		for n := 2; ; n++ {
			if _, taken := d.used[name]; !taken {
				break
			}
			name = slug.MakeUnique(stem, n) + ext
		}
	}

	d.used[name] = struct{}{}
	return name, warn
}
