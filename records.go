package tttplot

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Columns names the two columns of an empirical estimate file.
var Columns = [2]string{"elapsed_time", "probability"}

// Record is one point of a TTT curve: the elapsed time in seconds and the
// cumulative probability of having reached the target by then.
type Record struct {
	Elapsed     float64 `db:"elapsed"`
	Probability float64 `db:"probability"`
}

// Table is a TTT curve in the order the tool wrote it.
type Table []Record

func (t Table) Len() int {
	return len(t)
}

func (t Table) XY(i int) (x, y float64) {
	return t[i].Elapsed, t[i].Probability
}

// Column returns column i (0 for elapsed time, 1 for probability).
func (t Table) Column(i int) []float64 {
	col := make([]float64, len(t))
	for j, r := range t {
		if i == 0 {
			col[j] = r.Elapsed
		} else {
			col[j] = r.Probability
		}
	}
	return col
}

// ParseTable reads whitespace separated rows of exactly two numbers.
// There is no header; blank lines are ignored.
func ParseTable(r io.Reader) (Table, error) {
	var t Table
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != len(Columns) {
			return nil, errors.Errorf("line %d: expected %d columns, got %d", line, len(Columns), len(fields))
		}
		var rec Record
		var err error
		if rec.Elapsed, err = strconv.ParseFloat(fields[0], 64); err != nil {
			return nil, errors.Wrapf(err, "line %d: %s", line, Columns[0])
		}
		if rec.Probability, err = strconv.ParseFloat(fields[1], 64); err != nil {
			return nil, errors.Wrapf(err, "line %d: %s", line, Columns[1])
		}
		t = append(t, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "cannot read ttt data")
	}
	return t, nil
}

// LoadTable parses the empirical estimate file at path.
func LoadTable(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "cannot open ttt result")
	}
	defer f.Close()

	t, err := ParseTable(f)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot parse %s", path)
	}
	return t, nil
}
