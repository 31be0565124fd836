package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/docutag/articlegen"
	"github.com/docutag/articlegen/batch"
	"github.com/docutag/articlegen/keywords"
	"github.com/docutag/articlegen/models"
	"github.com/docutag/articlegen/slug"
	"github.com/docutag/articlegen/storage"
	"github.com/docutag/articlegen/textnorm"
)

// readLines reads non-empty trimmed lines from path, or from in when path is "-" or empty
func readLines(in io.Reader, path string) ([]string, error) {
	text, err := readText(in, path)
	if err != nil {
		return nil, err
	}
	return batch.Lines(text), nil
}

func readText(in io.Reader, path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// AnchorsCmd implements the 'anchors' command.
type AnchorsCmd struct {
	Titles        string `arg:"" optional:"" help:"File with one title per line (default stdin)"`
	BaseURL       string `name:"base-url" help:"Base URL anchors link under" env:"ARTICLEGEN_BASE_URL"`
	Suffix        string `help:"Appended to each slug, e.g. .html" env:"ARTICLEGEN_SUFFIX"`
	SlugLimit     int    `help:"Preferred maximum slug length"`
	SlugTolerance int    `default:"-1" help:"Characters a cut may move past the limit to finish a word (-1 keeps the profile value)"`
	Global        bool   `help:"Use one batch-wide phrase for every anchor"`
	Links         bool   `help:"Print bare links instead of anchor markup"`
	JSON          bool   `name:"json" help:"Print anchor records as JSON"`
}

func (a *AnchorsCmd) Run(g *Global, root *CLI) error {
	cfg, _, err := root.generatorConfig()
	if err != nil {
		return err
	}
	titles, err := readLines(g.In, a.Titles)
	if err != nil {
		return err
	}

	gen := articlegen.New(cfg)
	opts := articlegen.AnchorOptions{
		BaseURL:   a.BaseURL,
		Suffix:    a.Suffix,
		SlugLimit: a.SlugLimit,
	}
	if a.SlugTolerance >= 0 {
		opts.SlugTolerance = &a.SlugTolerance
	}
	build := gen.MakeAnchors
	if a.Global {
		build = gen.MakeGlobalAnchors
	}

	anchors, err := build(context.Background(), titles, opts)
	if err != nil {
		return err
	}

	switch {
	case a.JSON:
		return printJSON(g.Out, models.AnchorsResponse{Anchors: anchors, Links: articlegen.Links(anchors)})
	case a.Links:
		for _, link := range articlegen.Links(anchors) {
			fmt.Fprintln(g.Out, link)
		}
	default:
		for _, anchor := range anchors {
			fmt.Fprintln(g.Out, anchor.Markup)
		}
	}
	return nil
}

// LinksCmd implements the 'links' command.
type LinksCmd struct {
	Anchors string `arg:"" optional:"" help:"File with one anchor per line (default stdin)"`
}

func (l *LinksCmd) Run(g *Global, _ *CLI) error {
	lines, err := readLines(g.In, l.Anchors)
	if err != nil {
		return err
	}
	for _, link := range articlegen.ExtractLinks(lines) {
		fmt.Fprintln(g.Out, link)
	}
	return nil
}

// KeywordsCmd implements the 'keywords' command.
// Each line holds the title, its keyword phrase and its slug.
type KeywordsCmd struct {
	Titles []string `arg:"" help:"Titles to extract keywords from"`
	Scores bool     `help:"Also print the ranked candidate words"`
}

func (k *KeywordsCmd) Run(g *Global, root *CLI) error {
	cfg, _, err := root.generatorConfig()
	if err != nil {
		return err
	}

	for _, title := range k.Titles {
		phrase := keywords.Extract(title, cfg.MinWords, cfg.MaxWords)
		s := slug.Smart(title, cfg.SlugLimit, cfg.SlugTolerance)
		fmt.Fprintf(g.Out, "%s\t%s\t%s\n", title, strings.Join(phrase, " "), s)

		if k.Scores {
			words := textnorm.Tokenize(title)
			for _, tok := range keywords.Rank(words, keywords.AllowFilter(words, keywords.DefaultOptions())) {
				fmt.Fprintf(g.Out, "  %-20s %d\n", tok.Word, tok.Score)
			}
		}
	}
	return nil
}

// ImagesCmd implements the 'images' command.
type ImagesCmd struct {
	Domain   string `required:"" help:"Image host, e.g. https://cdn.example.com"`
	BaseName string `required:"" name:"base-name" help:"File name stem before the number"`
	Ext      string `default:".webp" help:"File extension including the dot"`
	Count    int    `default:"10" help:"Number of links"`
}

func (i *ImagesCmd) Run(g *Global, _ *CLI) error {
	links, err := articlegen.ImageLinks(i.Domain, i.BaseName, i.Ext, i.Count)
	if err != nil {
		return err
	}
	for _, link := range links {
		fmt.Fprintln(g.Out, link)
	}
	return nil
}

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	Template     string `required:"" type:"existingfile" help:"HTML template file"`
	Titles       string `required:"" type:"existingfile" help:"File with one title per line"`
	Links        string `type:"existingfile" help:"File with one link per line (default: derived from titles)"`
	Images       string `required:"" type:"existingfile" help:"File with one image URL per line"`
	Bodies       string `type:"existingfile" help:"File holding one marked body block per title"`
	Output       string `short:"o" help:"Write documents into this directory"`
	Zip          string `help:"Write documents into this zip archive"`
	Store        bool   `help:"Store documents in the profile's storage (local path or S3)"`
	NoStrict     bool   `name:"no-strict" help:"Keep documents that fail the integrity check"`
	NoLinkNaming bool   `name:"no-link-naming" help:"Name every document artikel.html with numbered duplicates"`
}

func (c *GenerateCmd) Run(g *Global, root *CLI) error {
	if c.Output == "" && c.Zip == "" && !c.Store {
		return fmt.Errorf("one of --output, --zip or --store is required")
	}

	cfg, profile, err := root.generatorConfig()
	if err != nil {
		return err
	}
	gen := articlegen.New(cfg)

	req, err := c.request(g, gen)
	if err != nil {
		return err
	}

	ctx := context.Background()
	result, err := gen.Generate(ctx, req)
	if err != nil {
		if result != nil {
			for _, v := range result.Verdicts {
				if !v.Passed {
					fmt.Fprintf(g.Out, "row %d: %s\n", v.Row, v.Reason)
				}
			}
		}
		return err
	}
	for _, w := range result.Warnings {
		fmt.Fprintln(g.Out, "warning:", w)
	}

	if c.Output != "" {
		if err := writeDir(c.Output, result.Documents); err != nil {
			return err
		}
		fmt.Fprintf(g.Out, "wrote %d document(s) to %s\n", len(result.Documents), c.Output)
	}
	if c.Zip != "" {
		if err := writeZip(c.Zip, result.Documents); err != nil {
			return err
		}
		fmt.Fprintf(g.Out, "wrote %s\n", c.Zip)
	}
	if c.Store {
		sink, err := openSink(ctx, profile)
		if err != nil {
			return err
		}
		key, err := sink.SaveArchive(ctx, result.RunID, profile.ArchiveName, result.Documents)
		if err != nil {
			return err
		}
		fmt.Fprintf(g.Out, "stored run %s at %s\n", result.RunID, key)
	}
	return nil
}

func (c *GenerateCmd) request(g *Global, gen *articlegen.Generator) (models.GenerateRequest, error) {
	var req models.GenerateRequest

	template, err := readText(g.In, c.Template)
	if err != nil {
		return req, err
	}
	req.Template = template

	if req.Titles, err = readLines(g.In, c.Titles); err != nil {
		return req, err
	}
	if req.Images, err = readLines(g.In, c.Images); err != nil {
		return req, err
	}

	if c.Links != "" {
		if req.Links, err = readLines(g.In, c.Links); err != nil {
			return req, err
		}
	} else {
		for _, title := range req.Titles {
			req.Links = append(req.Links, gen.Link(title, articlegen.AnchorOptions{}))
		}
	}

	if c.Bodies != "" {
		if req.Bodies, err = readText(g.In, c.Bodies); err != nil {
			return req, err
		}
	}

	if c.NoStrict {
		strict := false
		req.Strict = &strict
	}
	if c.NoLinkNaming {
		byLink := false
		req.NameFromLink = &byLink
	}
	return req, nil
}

func writeDir(dir string, docs []models.GeneratedDocument) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	for _, doc := range docs {
		if err := os.WriteFile(filepath.Join(dir, doc.Filename), []byte(doc.Content), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", doc.Filename, err)
		}
		slog.Debug("document written", "row", doc.Row, "filename", doc.Filename)
	}
	return nil
}

func writeZip(path string, docs []models.GeneratedDocument) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	if err := storage.WriteArchive(f, docs); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
