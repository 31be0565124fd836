package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/docutag/articlegen"
	"github.com/docutag/articlegen/config"
)

// Global carries state shared by every command.
type Global struct {
	Out io.Writer
	In  io.Reader
}

// CLI definition and global flags.
type CLI struct {
	Config    string `short:"c" help:"Profile file path (YAML)" env:"ARTICLEGEN_CONFIG" type:"path"`
	Verbose   bool   `short:"v" help:"Enable verbose logging"`
	LogFormat string `help:"Log output format" enum:"text,json" default:"text" env:"ARTICLEGEN_LOG_FORMAT"`

	Anchors  AnchorsCmd  `cmd:"" help:"Build anchor markup from a list of titles"`
	Links    LinksCmd    `cmd:"" help:"Extract link targets from anchor markup"`
	Keywords KeywordsCmd `cmd:"" help:"Show the keyword phrase chosen for each title"`
	Images   ImagesCmd   `cmd:"" help:"Print a numbered series of image links"`
	Generate GenerateCmd `cmd:"" help:"Render one document per title from a template"`
	Serve    ServeCmd    `cmd:"" help:"Run the HTTP API"`
	Migrate  MigrateCmd  `cmd:"" help:"Apply, roll back or list run history migrations"`
}

// AfterApply runs after flag parsing; set up logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if c.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}

// profile loads the configured profile, or built-in defaults when none is set
func (c *CLI) profile() (*config.Profile, error) {
	if c.Config == "" {
		return config.Parse(nil)
	}
	return config.Load(c.Config)
}

// generatorConfig returns generator configuration from the profile
func (c *CLI) generatorConfig() (articlegen.Config, *config.Profile, error) {
	p, err := c.profile()
	if err != nil {
		return articlegen.Config{}, nil, err
	}
	return p.GeneratorConfig(), p, nil
}

func main() {
	// A missing .env file is not an error
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("articlegen"),
		kong.Description("Generate anchor lists and templated article pages from titles."),
		kong.UsageOnError(),
	)

	err := ctx.Run(&Global{Out: os.Stdout, In: os.Stdin}, &cli)
	if err != nil {
		slog.Error("command failed", "command", ctx.Command(), "error", err)
		os.Exit(1)
	}
}
