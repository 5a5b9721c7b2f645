package main

import (
	"github.com/alecthomas/kingpin/v2"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/reoring/oasmd"
	"github.com/reoring/oasmd/i18n"
	"github.com/reoring/oasmd/output"
)

// GenerateCommand reads an OpenAPI document and writes Markdown files.
type GenerateCommand struct {
	fs        afero.Fs
	newLogger func() (*zap.Logger, error)

	input           string
	outputDir       string
	format          string
	title           string
	lang            string
	chunkByCategory bool
	inlineRefs      bool
	prune           bool
	strict          bool
	wrap            int
	maxDepth        int
}

// Register is used to register the command to the application. It is the
// default command.
func (c *GenerateCommand) Register(app *kingpin.Application, fs afero.Fs, newLogger func() (*zap.Logger, error)) {
	c.fs = fs
	c.newLogger = newLogger

	cmd := app.Command("generate", "Render the input document into the output directory.").Default().Action(c.run)
	cmd.Flag("input", "OpenAPI 3.x document (JSON or YAML).").Short('i').Envar("OASMD_INPUT").Default("openapi.json").StringVar(&c.input)
	cmd.Flag("output", "Directory the Markdown files are written to.").Short('o').Envar("OASMD_OUTPUT").Default("docs").StringVar(&c.outputDir)
	cmd.Flag("format", "Input syntax.").Envar("OASMD_FORMAT").Default(string(oasmd.FormatAuto)).EnumVar(&c.format, string(oasmd.FormatAuto), string(oasmd.FormatJSON), string(oasmd.FormatYAML))
	cmd.Flag("chunk-by-category", "Write one file per category plus index.md instead of a single file.").Envar("OASMD_CHUNK_BY_CATEGORY").Default("true").BoolVar(&c.chunkByCategory)
	cmd.Flag("inline-refs", "Expand every $ref under a Resolved Definition block.").Envar("OASMD_INLINE_REFS").Default("true").BoolVar(&c.inlineRefs)
	cmd.Flag("title", "Document title; defaults to info.title.").Envar("OASMD_TITLE").StringVar(&c.title)
	cmd.Flag("wrap", "Wrap paragraphs and list items at this column; 0 disables.").Envar("OASMD_WRAP").Default("0").IntVar(&c.wrap)
	cmd.Flag("max-depth", "Schema nesting limit.").Envar("OASMD_MAX_DEPTH").Default("64").IntVar(&c.maxDepth)
	cmd.Flag("prune", "Remove .md files in the output directory that were not generated.").Envar("OASMD_PRUNE").BoolVar(&c.prune)
	cmd.Flag("strict", "Exit with status 3 when any issue was recorded.").Envar("OASMD_STRICT").BoolVar(&c.strict)
	cmd.Flag("lang", "Language of diagnostic messages.").Envar("OASMD_LANG").Default("en").EnumVar(&c.lang, "en", "ja")
}

func (c *GenerateCommand) run(_ *kingpin.ParseContext) error {
	logger, err := c.newLogger()
	if err != nil {
		return &exitError{code: exitUsage, err: err}
	}
	defer func() { _ = logger.Sync() }()
	i18n.SetLanguage(c.lang)

	data, err := afero.ReadFile(c.fs, c.input)
	if err != nil {
		logger.Error("unable to read input", zap.String("file", c.input), zap.Error(err))
		return &exitError{code: exitFailed, err: errors.Wrap(err, "read input")}
	}

	opts := oasmd.DefaultOptions()
	opts.ChunkByCategory = c.chunkByCategory
	opts.InlineRefs = c.inlineRefs
	opts.Title = c.title
	opts.WrapWidth = c.wrap
	opts.MaxDepth = c.maxDepth
	opts.Format = oasmd.Format(c.format)

	res, err := oasmd.GenerateFrom(c.input, data, opts)
	if err != nil {
		logger.Error("unable to render document", zap.String("file", c.input), zap.Error(err))
		return &exitError{code: exitFailed, err: err}
	}
	for _, is := range res.Issues {
		logger.Warn(is.Message, zap.String("code", is.Code), zap.String("path", is.Path), zap.String("ref", is.Ref))
	}

	w := output.New(c.outputDir, c.fs, logger)
	w.Prune = c.prune
	sum, err := w.Write(res.Units)
	if err != nil {
		logger.Error("unable to write output", zap.String("dir", c.outputDir), zap.Error(err))
		return &exitError{code: exitFailed, err: err}
	}

	logger.Info("generated documentation",
		zap.String("output", c.outputDir),
		zap.Int("units", len(res.Units)),
		zap.Int("operations", res.Operations),
		zap.Int("categories", len(res.Categories)),
		zap.Int("written", len(sum.Written)),
		zap.Int("unchanged", len(sum.Unchanged)),
		zap.Int("removed", len(sum.Removed)),
		zap.Int("issues", len(res.Issues)),
	)
	if c.strict && len(res.Issues) > 0 {
		return &exitError{code: exitIssues, err: errors.Wrap(res.Issues, "issues recorded")}
	}
	return nil
}
