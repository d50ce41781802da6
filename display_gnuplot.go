//go:build gnuplot

package tttplot

import (
	"github.com/Arafatk/glot"
)

func (g *Gnuplot) Show(f *Figure) error {
	p, err := glot.NewPlot(2, g.Persist, g.Debug)
	if err != nil {
		g.skip("gnuplot did not start", err)
		return nil
	}
	defer p.Close()

	return g.replay(p, f)
}
