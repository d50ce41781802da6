package tttplot

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/plot/vg"
)

// Runner drives conditions through the tool, loads their results and draws
// them. Conditions are processed strictly one after another.
type Runner struct {
	Layout  Layout
	Tool    Tool
	Display Display
	// Archive is optional; when set every loaded table is stored under RunID.
	Archive *Archive
	RunID   string
	Log     logrus.FieldLogger
	Strict  bool
	XLabel  string
	YLabel  string
	Width   vg.Length
	Height  vg.Length
}

// NewRunID names a run after the current UTC time.
func NewRunID() string {
	return time.Now().UTC().Format("20060102T150405Z")
}

// NewRunner builds a Runner from cfg. The archive is left for the caller to open.
func NewRunner(cfg *Config, log logrus.FieldLogger) *Runner {
	var display Display = NopDisplay{}
	if cfg.Plot.Show {
		display = &Gnuplot{Persist: true, XLabel: cfg.Plot.XLabel, YLabel: cfg.Plot.YLabel, Log: log}
	}
	return &Runner{
		Layout:  cfg.Layout,
		Tool:    cfg.NewTool(),
		Display: display,
		RunID:   NewRunID(),
		Log:     log,
		Strict:  cfg.Tool.Strict,
		XLabel:  cfg.Plot.XLabel,
		YLabel:  cfg.Plot.YLabel,
		Width:   vg.Length(cfg.Plot.WidthCM) * vg.Centimeter,
		Height:  vg.Length(cfg.Plot.HeightCM) * vg.Centimeter,
	}
}

func (r *Runner) logger() logrus.FieldLogger {
	if r.Log == nil {
		return logrus.StandardLogger()
	}
	return r.Log
}

// Prepare runs the tool for c and loads the table it produced. A tool
// failure only aborts in strict mode; otherwise loading the result decides.
func (r *Runner) Prepare(ctx context.Context, c Condition) (Table, Paths, error) {
	p := r.Layout.Paths(c)
	log := r.logger().WithFields(logrus.Fields{
		"instance":  c.Instance,
		"condition": c.Name(),
		"input":     p.Input,
		"output":    p.OutputBase,
	})

	if err := os.MkdirAll(r.Layout.OutDir, 0755); err != nil {
		return nil, p, errors.Wrap(err, "cannot create tool output directory")
	}

	log.Info("running ttt tool")
	start := time.Now()
	err := r.Tool.Run(ctx, p.Input, p.OutputBase)
	log = log.WithField("elapsed", time.Since(start))
	if err != nil {
		if r.Strict {
			return nil, p, errors.Wrapf(err, "condition %s", c.Name())
		}
		log.WithError(err).Warn("ttt tool failed, loading result anyway")
	}

	t, err := LoadTable(p.Result)
	if err != nil {
		return nil, p, errors.Wrapf(err, "condition %s", c.Name())
	}
	log.WithFields(logrus.Fields{"result": p.Result, "rows": len(t)}).Info("loaded ttt result")
	for i, rec := range t {
		log.Tracef("%d %s=%g %s=%g", i, Columns[0], rec.Elapsed, Columns[1], rec.Probability)
	}

	if r.Archive != nil {
		if err := r.Archive.Store(ctx, r.RunID, c, t); err != nil {
			return nil, p, errors.Wrapf(err, "condition %s", c.Name())
		}
		log.WithField("run", r.RunID).Debug("archived ttt result")
	}
	return t, p, nil
}

// RunSingle plots one condition as a line and returns the image path.
func (r *Runner) RunSingle(ctx context.Context, c Condition) (string, error) {
	t, _, err := r.Prepare(ctx, c)
	if err != nil {
		return "", err
	}
	fig := NewFigure("", r.XLabel, r.YLabel)
	if fig, err = fig.AddLine(Series{Legend: c.Label(), Color: ParseColor(c.Color, 0), Table: t}); err != nil {
		return "", errors.Wrapf(err, "condition %s", c.Name())
	}
	title := fmt.Sprintf("Instance %d, %s", c.Instance, c.Label())
	return r.finish(fig, title, r.Layout.PlotPath(c))
}

// RunOverlay runs every condition of o and draws them all on one figure.
func (r *Runner) RunOverlay(ctx context.Context, o Overlay) (string, error) {
	return r.overlay(ctx, o, func(ctx context.Context, c Condition) (Table, error) {
		t, _, err := r.Prepare(ctx, c)
		return t, err
	})
}

// Replot rebuilds the overlay o from the tables archived under runID.
func (r *Runner) Replot(ctx context.Context, o Overlay, runID string) (string, error) {
	if r.Archive == nil {
		return "", errors.New("replot needs an archive")
	}
	return r.overlay(ctx, o, func(ctx context.Context, c Condition) (Table, error) {
		t, err := r.Archive.Load(ctx, runID, c)
		if err == nil {
			r.logger().WithFields(logrus.Fields{"condition": c.Name(), "run": runID, "rows": len(t)}).Info("loaded archived result")
		}
		return t, err
	})
}

func (r *Runner) overlay(ctx context.Context, o Overlay, load func(context.Context, Condition) (Table, error)) (string, error) {
	fig := NewFigure("", r.XLabel, r.YLabel)
	for i, c := range o.Conditions {
		t, err := load(ctx, c)
		if err != nil {
			return "", err
		}
		s := Series{Legend: c.Label(), Color: ParseColor(c.Color, i), Table: t}
		if fig, err = fig.AddCondition(s); err != nil {
			return "", errors.Wrapf(err, "condition %s", c.Name())
		}
	}
	title := o.Title
	if title == "" {
		title = fmt.Sprintf("Instance %d", o.Instance)
	}
	return r.finish(fig, title, r.Layout.OverlayPlotPath(o.Instance))
}

func (r *Runner) finish(fig *Figure, title, out string) (string, error) {
	fig.SetTitle(title)
	w, h := r.Width, r.Height
	if w <= 0 || h <= 0 {
		w, h = 16*vg.Centimeter, 12*vg.Centimeter
	}
	if err := fig.Save(out, w, h); err != nil {
		return "", errors.Wrapf(err, "cannot save %s", out)
	}
	r.logger().WithField("plot", out).Info("saved plot")

	if r.Display != nil {
		if err := r.Display.Show(fig); err != nil {
			return out, errors.Wrap(err, "cannot display plot")
		}
	}
	return out, nil
}
