package tttplot

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Display shows a finished figure to the user.
type Display interface {
	Show(f *Figure) error
}

type NopDisplay struct{}

func (NopDisplay) Show(*Figure) error { return nil }

// Gnuplot replays a figure's series in a gnuplot window. The window is only
// available in binaries built with the gnuplot tag; elsewhere, and on hosts
// where gnuplot cannot be started, Show does nothing.
type Gnuplot struct {
	Persist bool
	Debug   bool
	XLabel  string
	YLabel  string
	Log     logrus.FieldLogger
}

func (g *Gnuplot) skip(reason string, err error) {
	if g.Log == nil {
		return
	}
	log := g.Log.WithField("reason", reason)
	if err != nil {
		log = log.WithError(err)
	}
	log.Debug("skipping gnuplot display")
}

// gnuplotter is the part of a glot plot the replay drives.
type gnuplotter interface {
	SetTitle(title string) error
	SetXLabel(label string) error
	SetYLabel(label string) error
	AddPointGroup(name string, style string, data interface{}) error
}

// replay sends the figure to p. Title and labels are set first because every
// point group immediately issues a plot or replot command.
func (g *Gnuplot) replay(p gnuplotter, f *Figure) error {
	if err := p.SetTitle(f.Title()); err != nil {
		return errors.Wrap(err, "cannot set title")
	}
	if err := p.SetXLabel(g.XLabel); err != nil {
		return errors.Wrap(err, "cannot set x label")
	}
	if err := p.SetYLabel(g.YLabel); err != nil {
		return errors.Wrap(err, "cannot set y label")
	}

	style := "lines"
	if f.Scatters() > 0 {
		style = "lp"
	}
	used := make(map[string]bool)
	for _, s := range f.Series() {
		// point group names double as keys and must be unique
		name := s.Legend
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s (%d)", s.Legend, n)
		}
		used[name] = true

		data := [][]float64{s.Table.Column(0), s.Table.Column(1)}
		if err := p.AddPointGroup(name, style, data); err != nil {
			return errors.Wrapf(err, "cannot display %q", name)
		}
	}
	return nil
}
