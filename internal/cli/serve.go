package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/sasutils/sastopo2svg/pkg/pipeline"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	listen    string // bind address
	outdir    string // directory the rendered files are written to and served from
	assetsDir string // icon source directory override
}

// serveCommand creates the serve command: render a snapshot, then serve
// the generated files over HTTP for browsing.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Render a snapshot and serve the diagram over HTTP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.listen, "listen", "l", "", "listen address (default from config)")
	cmd.Flags().StringVarP(&opts.outdir, "outdir", "o", "", "directory for the rendered files (default: temporary)")
	cmd.Flags().StringVar(&opts.assetsDir, "assets", "", "icon asset directory (default: install location)")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, input string, opts serveOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	listen := opts.listen
	if listen == "" {
		listen = c.Config.Listen
	}

	outdir := opts.outdir
	if outdir == "" {
		dir, err := os.MkdirTemp("", appName+"-*")
		if err != nil {
			return err
		}
		defer os.RemoveAll(dir)
		outdir = dir
	}
	assetsDir := opts.assetsDir
	if assetsDir == "" {
		assetsDir = c.Config.AssetsDir
	}

	pipeOpts := pipeline.Options{
		Input:     input,
		Outdir:    outdir,
		Formats:   []string{pipeline.FormatSVG, pipeline.FormatHTML},
		AssetsDir: assetsDir,
		Logger:    logger,
	}
	result, err := c.newRunner().Execute(ctx, pipeOpts)
	if err != nil {
		printError("Render failed: %s", err)
		return err
	}
	logger.Info("rendered snapshot", "vertices", result.Stats.VertexCount, "dir", outdir)

	srv := &http.Server{
		Addr:              listen,
		Handler:           newServeHandler(outdir, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	printSuccess("Serving topology at http://%s/", listen)
	printInfo("Files in %s", outdir)
	printDetail("Press Ctrl-C to stop")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// newServeHandler builds the router: the wrapper page at the root and the
// generated files (diagram, assets) served statically beside it.
func newServeHandler(dir string, logger *charmlog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/"+pipeline.FileNames[pipeline.FormatHTML], http.StatusFound)
	})
	r.Handle("/*", http.FileServer(http.Dir(dir)))

	return r
}

// requestLogger logs each request with method, path, and duration.
func requestLogger(logger *charmlog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
			next.ServeHTTP(ww, req)
			logger.Debug("request",
				"method", req.Method,
				"path", req.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start).Round(time.Microsecond))
		})
	}
}
