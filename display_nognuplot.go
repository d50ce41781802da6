//go:build !gnuplot

package tttplot

// Show is a no-op: glot refuses to initialise without gnuplot on PATH, so it
// is only linked into binaries built with -tags gnuplot.
func (g *Gnuplot) Show(*Figure) error {
	g.skip("built without the gnuplot tag", nil)
	return nil
}
