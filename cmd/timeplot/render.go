package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/timeplot"
	"github.com/gogpu/timeplot/internal/chartfile"
)

func newRenderCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a chart description to PNG",
		Long: `Load the sources of a YAML chart description, paint its plots and
write the result as PNG. With --watch, local sources are reloaded and the
image rewritten whenever they change.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context(), renderConfig{
				file:    v.GetString("file"),
				output:  v.GetString("output"),
				width:   v.GetInt("width"),
				height:  v.GetInt("height"),
				watch:   v.GetBool("watch"),
				timeout: v.GetDuration("timeout"),
			})
		},
	}

	cmd.Flags().StringP("file", "f", "", "Path to the YAML chart description (required)")
	cmd.Flags().StringP("output", "o", "timeplot.png", "Path of the PNG to write")
	cmd.Flags().Int("width", 0, "Override the chart width")
	cmd.Flags().Int("height", 0, "Override the chart height")
	cmd.Flags().Bool("watch", false, "Rewrite the PNG when local sources change")
	cmd.Flags().Duration("timeout", time.Minute, "Time allowed for loading and painting")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

type renderConfig struct {
	file    string
	output  string
	width   int
	height  int
	watch   bool
	timeout time.Duration
}

// renderer keeps a timeplot and the sources of its chart.
type renderer struct {
	tp      *timeplot.Timeplot
	chart   *chartfile.Chart
	built   *chartfile.Built
	output  string
	painted chan struct{}
	logger  *slog.Logger
}

func runRender(ctx context.Context, cfg renderConfig) error {
	c, err := chartfile.Load(afero.NewOsFs(), cfg.file)
	if err != nil {
		return err
	}
	if cfg.width > 0 {
		c.Width = cfg.width
	}
	if cfg.height > 0 {
		c.Height = cfg.height
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("%s: %w", cfg.file, err)
	}
	built, err := c.Build()
	if err != nil {
		return fmt.Errorf("%s: %w", cfg.file, err)
	}

	logger := timeplot.Logger().With("chart", cfg.file)
	env := timeplot.NewEnv(timeplot.WithEnvLogger(logger))
	tp, err := timeplot.Create(built.Box, built.Infos, timeplot.WithEnv(env))
	if err != nil {
		return err
	}
	defer tp.Dispose()
	if !tp.Supported() {
		return errors.New("render: no drawing surface available")
	}

	r := &renderer{
		tp:      tp,
		chart:   c,
		built:   built,
		output:  cfg.output,
		painted: make(chan struct{}, 1),
		logger:  logger,
	}
	tp.OnPaint(func() {
		select {
		case r.painted <- struct{}{}:
		default:
		}
	})

	loadCtx := ctx
	if cfg.timeout > 0 {
		var cancel context.CancelFunc
		loadCtx, cancel = context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
	}
	if err := r.loadAll(loadCtx); err != nil {
		return err
	}
	if err := r.write(loadCtx); err != nil {
		return err
	}
	if !cfg.watch {
		return nil
	}
	return r.watch(ctx)
}

// loadAll loads every source concurrently and returns the first failure.
func (r *renderer) loadAll(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, s := range r.chart.Sources {
		g.Go(func() error {
			return r.load(ctx, s)
		})
	}
	return g.Wait()
}

func (r *renderer) load(ctx context.Context, s chartfile.Source) error {
	es := r.built.Sources[s.Name]
	loc := r.chart.Location(s)
	if s.Format == chartfile.FormatXML {
		return r.tp.LoadXML(ctx, loc, es)
	}
	return r.tp.LoadText(ctx, loc, s.SeparatorRune(), es, nil)
}

// write waits for a paint pass that starts after the call, then saves
// the image.
func (r *renderer) write(ctx context.Context) error {
	select {
	case <-r.painted:
	default:
	}
	r.tp.Paint()

	select {
	case <-r.painted:
	case <-ctx.Done():
		return fmt.Errorf("render: waiting for paint: %w", ctx.Err())
	}

	if err := r.tp.SavePNG(r.output); err != nil {
		return err
	}
	r.logger.Info("render: wrote image", "path", r.output,
		"width", r.tp.Width(), "height", r.tp.Height())
	return nil
}

// watch reloads local sources when their files change until ctx is done.
func (r *renderer) watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	sources := make(map[string]chartfile.Source)
	dirs := make(map[string]bool)
	for _, s := range r.chart.Sources {
		path, ok := r.chart.Local(s)
		if !ok {
			continue
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		sources[abs] = s
		dirs[filepath.Dir(abs)] = true
	}
	if len(sources) == 0 {
		return errors.New("render: --watch needs at least one local source")
	}

	// Directories are watched so that files replaced by editors are seen.
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("render: watch %s: %w", dir, err)
		}
	}
	r.logger.Info("render: watching sources", "count", len(sources))

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			s, ok := sources[filepath.Clean(ev.Name)]
			if !ok {
				continue
			}

			r.logger.Debug("render: source changed", "source", s.Name, "op", ev.Op.String())
			r.built.Sources[s.Name].Clear()
			if err := r.load(ctx, s); err != nil {
				// The image is still written so that it shows the alert.
				r.logger.Warn("render: reload failed", "source", s.Name, "err", err)
			}
			if err := r.write(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("render: watcher error", "err", err)
		}
	}
}
