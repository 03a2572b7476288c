// Package pipeline runs the complete decode → build → layout → render
// sequence for one topology snapshot.
//
// Centralizing the sequence keeps the CLI and the serve command on
// identical behavior: both hand an [Options] to a [Runner] and receive a
// [Result] carrying the artifacts and run statistics.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	opts := pipeline.Options{
//	    Input:   "sastopo.xml",
//	    Outdir:  "/tmp/out",
//	    Formats: []string{"svg", "html"},
//	}
//	result, err := runner.Execute(ctx, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sasutils/sastopo2svg/pkg/errors"
	"github.com/sasutils/sastopo2svg/pkg/layout"
	"github.com/sasutils/sastopo2svg/pkg/topo"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatHTML = "html"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatHTML: true,
	FormatDOT:  true,
	FormatJSON: true,
}

// FileNames maps each format to its fixed output file name. The names are
// fixed because the HTML wrapper references the diagram by name.
var FileNames = map[string]string{
	FormatSVG:  "sastopo.svg",
	FormatHTML: "sastopo2svg.html",
	FormatDOT:  "sastopo.dot",
	FormatJSON: "sastopo.json",
}

// Options configures one pipeline run.
type Options struct {
	// Input is the path of the serialized topology snapshot.
	Input string

	// Outdir is the directory output files are written into. Empty means
	// render in memory only.
	Outdir string

	// Formats lists the artifacts to render.
	Formats []string

	// AssetsDir is the icon source directory. Empty resolves the
	// install-relative default. Only consulted when Outdir is set and an
	// icon-referencing format (svg, html) is rendered.
	AssetsDir string

	// SkipAssets suppresses the icon copy into Outdir.
	SkipAssets bool

	// Logger receives stage progress. Defaults to a discarding logger.
	Logger *log.Logger

	validated bool
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// Idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Input == "" {
		return errors.New(errors.ErrCodeInvalidInput, "input file is required")
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG, FormatHTML}
	}
	for _, f := range o.Formats {
		if !ValidFormats[f] {
			return errors.New(errors.ErrCodeInvalidInput,
				"invalid format %q (must be one of: svg, html, dot, json)", f)
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// wantsIcons reports whether any requested format references the icon
// assets.
func (o *Options) wantsIcons() bool {
	for _, f := range o.Formats {
		if f == FormatSVG || f == FormatHTML {
			return true
		}
	}
	return false
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the run in logs.
	RunID string

	// Graph is the decoded topology.
	Graph *topo.Digraph

	// Placement holds the computed geometry.
	Placement layout.Placement

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Files lists the paths written under Outdir, empty for in-memory runs.
	Files []string

	// Stats contains size and timing information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	VertexCount int
	EdgeCount   int
	MaxDepth    int
	MaxHeight   int
	DecodeTime  time.Duration
	BuildTime   time.Duration
	LayoutTime  time.Duration
	RenderTime  time.Duration
}
