package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/sasutils/sastopo2svg/pkg/assets"
	"github.com/sasutils/sastopo2svg/pkg/errors"
	svgio "github.com/sasutils/sastopo2svg/pkg/io"
	"github.com/sasutils/sastopo2svg/pkg/layout"
	"github.com/sasutils/sastopo2svg/pkg/render/dot"
	"github.com/sasutils/sastopo2svg/pkg/render/html"
	"github.com/sasutils/sastopo2svg/pkg/render/svg"
	"github.com/sasutils/sastopo2svg/pkg/topo"
	"github.com/sasutils/sastopo2svg/pkg/topoxml"
)

// Runner executes pipeline runs. It is stateless apart from the logger;
// one Runner can serve multiple runs with different options.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. A nil logger falls back to log.Default.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute runs decode → build → layout → render for one snapshot. When
// opts.Outdir is set the artifacts are also written to disk and the icon
// assets installed next to them. Any stage failure aborts the run before
// a single file is written.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger

	result := &Result{
		RunID:     uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}
	logger.Debug("starting run", "id", result.RunID, "input", opts.Input)

	decodeStart := time.Now()
	doc, err := topoxml.ParseFile(opts.Input)
	if err != nil {
		return nil, err
	}
	result.Stats.DecodeTime = time.Since(decodeStart)
	logger.Info("decoded snapshot",
		"vertices", len(doc.Vertices),
		"nodename", doc.Nodename,
		"duration", result.Stats.DecodeTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	buildStart := time.Now()
	g, err := topo.Build(doc)
	if err != nil {
		return nil, err
	}
	result.Graph = g
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.VertexCount = g.VertexCount()
	result.Stats.EdgeCount = g.EdgeCount()
	logger.Info("built digraph",
		"vertices", result.Stats.VertexCount,
		"edges", result.Stats.EdgeCount,
		"initiators", len(g.Initiators()),
		"duration", result.Stats.BuildTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	layoutStart := time.Now()
	layering, err := layout.Layer(g)
	if err != nil {
		return nil, err
	}
	placement := layout.Place(layering)
	result.Placement = placement
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.MaxDepth = layering.MaxDepth
	result.Stats.MaxHeight = layering.MaxHeight
	logger.Info("computed layout",
		"depth", layering.MaxDepth,
		"height", layering.MaxHeight,
		"duration", result.Stats.LayoutTime)
	for depth := 1; depth <= layering.MaxDepth; depth++ {
		logger.Debug("layer occupancy", "depth", depth, "height", len(layering.Columns[depth]))
	}
	for fmri, box := range placement.Boxes {
		logger.Debug("placed vertex", "fmri", fmri, "x", box.X, "y", box.Y)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	renderStart := time.Now()
	if err := r.render(ctx, result, opts); err != nil {
		return nil, err
	}
	result.Stats.RenderTime = time.Since(renderStart)
	logger.Info("rendered artifacts",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	if opts.Outdir != "" {
		if err := r.write(result, opts); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (r *Runner) render(ctx context.Context, result *Result, opts Options) error {
	for _, format := range opts.Formats {
		switch format {
		case FormatSVG:
			data, err := svg.Render(result.Graph, result.Placement)
			if err != nil {
				return err
			}
			result.Artifacts[FormatSVG] = data
		case FormatHTML:
			result.Artifacts[FormatHTML] = html.Render(result.Placement)
		case FormatDOT:
			graph := dot.ToDOT(result.Graph)
			result.Artifacts[FormatDOT] = []byte(graph)
			rendered, err := dot.RenderSVG(ctx, graph)
			if err != nil {
				return err
			}
			result.Artifacts["dot-svg"] = rendered
		case FormatJSON:
			var buf bytes.Buffer
			if err := svgio.WriteJSON(result.Graph, &buf); err != nil {
				return err
			}
			result.Artifacts[FormatJSON] = buf.Bytes()
		}
	}
	return nil
}

// fileNameFor returns the on-disk name for an artifact key, covering the
// secondary dot-svg artifact that has no format of its own.
func fileNameFor(key string) string {
	if key == "dot-svg" {
		return "sastopo-graphviz.svg"
	}
	return FileNames[key]
}

func (r *Runner) write(result *Result, opts Options) error {
	if err := os.MkdirAll(opts.Outdir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeIOFailure, err, "create output directory %s", opts.Outdir)
	}

	for key, data := range result.Artifacts {
		path := filepath.Join(opts.Outdir, fileNameFor(key))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeIOFailure, err, "write %s", path)
		}
		result.Files = append(result.Files, path)
		opts.Logger.Debug("wrote artifact", "path", path, "bytes", len(data))
	}

	if opts.wantsIcons() && !opts.SkipAssets {
		srcDir := opts.AssetsDir
		if srcDir == "" {
			dir, err := assets.DefaultDir()
			if err != nil {
				return err
			}
			srcDir = dir
		}
		if err := assets.Install(srcDir, opts.Outdir); err != nil {
			return err
		}
		opts.Logger.Debug("installed assets", "source", srcDir)
	}
	return nil
}
