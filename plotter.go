package tttplot

import (
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ErrEmptyTable is returned when a series without points is drawn.
var ErrEmptyTable = errors.New("ttt table has no rows")

// Series is one condition's curve together with its legend text and colour.
type Series struct {
	Legend string
	Color  color.Color
	Table  Table
}

// Figure accumulates series on a single set of axes. Draw calls return the
// figure so the pipeline can thread it through the condition loop.
type Figure struct {
	plot     *plot.Plot
	series   []Series
	lines    int
	scatters int
}

func NewFigure(title, xLabel, yLabel string) *Figure {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Legend.Top = false
	p.Legend.Left = false
	p.Add(plotter.NewGrid())
	return &Figure{plot: p}
}

func (f *Figure) SetTitle(title string) {
	f.plot.Title.Text = title
}

func (f *Figure) Title() string {
	return f.plot.Title.Text
}

// AddLine draws s as a single labelled line.
func (f *Figure) AddLine(s Series) (*Figure, error) {
	if len(s.Table) == 0 {
		return f, ErrEmptyTable
	}
	l, err := plotter.NewLine(s.Table)
	if err != nil {
		return f, errors.Wrap(err, "cannot create line")
	}
	l.LineStyle.Color = s.Color
	f.plot.Add(l)
	f.plot.Legend.Add(s.Legend, l)
	f.lines++
	f.series = append(f.series, s)
	return f, nil
}

// AddCondition draws s as a thin unlabelled line with a labelled scatter on top.
func (f *Figure) AddCondition(s Series) (*Figure, error) {
	if len(s.Table) == 0 {
		return f, ErrEmptyTable
	}
	l, err := plotter.NewLine(s.Table)
	if err != nil {
		return f, errors.Wrap(err, "cannot create line")
	}
	l.LineStyle.Color = s.Color
	l.LineStyle.Width = vg.Points(0.5)

	sc, err := plotter.NewScatter(s.Table)
	if err != nil {
		return f, errors.Wrap(err, "cannot create scatter")
	}
	sc.GlyphStyle.Color = s.Color
	sc.GlyphStyle.Shape = draw.CircleGlyph{}
	sc.GlyphStyle.Radius = vg.Points(2)

	f.plot.Add(l, sc)
	f.plot.Legend.Add(s.Legend, sc)
	f.lines++
	f.scatters++
	f.series = append(f.series, s)
	return f, nil
}

func (f *Figure) Series() []Series {
	return f.series
}

func (f *Figure) Lines() int {
	return f.lines
}

func (f *Figure) Scatters() int {
	return f.scatters
}

// Save renders the figure to path. The image format is taken from the file
// extension and defaults to png.
func (f *Figure) Save(path string, w, h vg.Length) error {
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if format == "" {
		format = "png"
	}
	wt, err := f.plot.WriterTo(w, h, format)
	if err != nil {
		return errors.Wrap(err, "cannot create writer")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "cannot create plot directory")
	}
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "cannot open file")
	}
	if _, err = wt.WriteTo(file); err != nil {
		file.Close()
		return errors.Wrap(err, "cannot write to file")
	}
	if err = file.Close(); err != nil {
		return errors.Wrap(err, "cannot close file")
	}
	return nil
}

var namedColors = map[string]color.Color{
	"black":  color.RGBA{A: 255},
	"red":    color.RGBA{R: 220, G: 40, B: 40, A: 255},
	"green":  color.RGBA{R: 40, G: 160, B: 60, A: 255},
	"blue":   color.RGBA{R: 40, G: 80, B: 220, A: 255},
	"orange": color.RGBA{R: 240, G: 140, B: 20, A: 255},
	"purple": color.RGBA{R: 140, G: 60, B: 170, A: 255},
	"gray":   color.RGBA{R: 128, G: 128, B: 128, A: 255},
}

// ParseColor resolves a "#rrggbb" value or a colour name. Anything else falls
// back to the i-th colour of the default palette.
func ParseColor(name string, i int) color.Color {
	name = strings.ToLower(strings.TrimSpace(name))
	if c, ok := namedColors[name]; ok {
		return c
	}
	if len(name) == 7 && name[0] == '#' {
		if v, err := strconv.ParseUint(name[1:], 16, 32); err == nil {
			return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
		}
	}
	return plotutil.Color(i)
}
