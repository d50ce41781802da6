package tttplot

import (
	"fmt"
	"path"
	"strconv"
)

// EmpiricalSuffix is appended by tttplots.pl to the output base of the
// empirical estimate series.
const EmpiricalSuffix = "-ee.dat"

type Mode string

const (
	ModeParallel    Mode = "parallel"
	ModeAntsThreads Mode = "ants-threads"
)

// Condition is one experimental configuration whose TTT curve gets plotted.
// Parallel is used in ModeParallel, Ants and Threads in ModeAntsThreads.
type Condition struct {
	Instance int    `yaml:"instance"`
	Mode     Mode   `yaml:"mode"`
	Parallel bool   `yaml:"parallel"`
	Ants     int    `yaml:"ants"`
	Threads  int    `yaml:"threads"`
	Legend   string `yaml:"legend,omitempty"`
	Color    string `yaml:"color,omitempty"`
}

func ParallelCondition(instance int, parallel bool) Condition {
	return Condition{Instance: instance, Mode: ModeParallel, Parallel: parallel}
}

func AntsThreadsCondition(instance, ants, threads int) Condition {
	return Condition{Instance: instance, Mode: ModeAntsThreads, Ants: ants, Threads: threads}
}

// Name identifies the condition in output file names and in the archive.
func (c Condition) Name() string {
	if c.Mode == ModeAntsThreads {
		return fmt.Sprintf("i%d_%d_ants_%d_threads", c.Instance, c.Ants, c.Threads)
	}
	return fmt.Sprintf("%d_%s", c.Instance, strconv.FormatBool(c.Parallel))
}

// Label is the legend text for the condition.
func (c Condition) Label() string {
	if c.Legend != "" {
		return c.Legend
	}
	if c.Mode == ModeAntsThreads {
		return fmt.Sprintf("%d ants, %d threads", c.Ants, c.Threads)
	}
	if c.Parallel {
		return "parallel"
	}
	return "sequential"
}

// Layout holds the directories the pipeline reads from and writes to.
// Label prefixes the durations file name inside DataDir.
type Layout struct {
	DataDir string `yaml:"data_dir"`
	OutDir  string `yaml:"out_dir"`
	PlotDir string `yaml:"plot_dir"`
	Label   string `yaml:"label"`
}

func DefaultLayout() Layout {
	return Layout{
		DataDir: "sample_data",
		OutDir:  "sample_data/tttplot-out",
		PlotDir: "sample_data/plots",
		Label:   "Indefinidas - ",
	}
}

// Paths are the files involved in processing one condition.
type Paths struct {
	Input      string
	OutputBase string
	Result     string
}

// Paths builds the tool input, the tool output base and the result file of c.
// The input file name is wrapped in literal double quotes: the tool command
// line is handed to a shell, which strips them.
func (l Layout) Paths(c Condition) Paths {
	var file string
	switch c.Mode {
	case ModeAntsThreads:
		file = fmt.Sprintf("%si%d_%d_ants_%d_threads.dat", l.Label, c.Instance, c.Ants, c.Threads)
	default:
		file = fmt.Sprintf("%si%d_durations_par_%s.dat", l.Label, c.Instance, strconv.FormatBool(c.Parallel))
	}
	base := path.Join(l.OutDir, c.Name())
	return Paths{
		Input:      path.Join(l.DataDir, `"`+file+`"`),
		OutputBase: base,
		Result:     base + EmpiricalSuffix,
	}
}

func (l Layout) PlotPath(c Condition) string {
	return path.Join(l.PlotDir, c.Name()+".png")
}

func (l Layout) OverlayPlotPath(instance int) string {
	return path.Join(l.PlotDir, fmt.Sprintf("i%d_ants_threads.png", instance))
}
