package tttplot

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTable(t *testing.T) {
	got, err := ParseTable(strings.NewReader("0.5 0.10\n1.2 0.35\n3.0 0.90\n"))
	require.NoError(t, err)
	assert.Equal(t, Table{{0.5, 0.10}, {1.2, 0.35}, {3.0, 0.90}}, got)
}

func TestParseTableKeepsOrder(t *testing.T) {
	// deliberately unsorted
	got, err := ParseTable(strings.NewReader("3.0 0.9\n0.5 0.1\n1.2 0.35\n"))
	require.NoError(t, err)
	assert.Equal(t, []float64{3.0, 0.5, 1.2}, got.Column(0))
	assert.Equal(t, []float64{0.9, 0.1, 0.35}, got.Column(1))
}

func TestParseTableWhitespace(t *testing.T) {
	in := "  0.25\t0.05  \n\n1.5e-1    2E-1\r\n\n"
	got, err := ParseTable(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.InDelta(t, 0.25, got[0].Elapsed, 1e-12)
	assert.InDelta(t, 0.05, got[0].Probability, 1e-12)
	assert.InDelta(t, 0.15, got[1].Elapsed, 1e-12)
	assert.InDelta(t, 0.2, got[1].Probability, 1e-12)
}

func TestParseTableErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		msg  string
	}{
		{"one column", "0.5 0.1\n1.0\n", "line 2: expected 2 columns, got 1"},
		{"three columns", "0.5 0.1 7\n", "line 1: expected 2 columns, got 3"},
		{"header", "time prob\n0.5 0.1\n", "line 1: elapsed_time"},
		{"bad probability", "0.5 x\n", "line 1: probability"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTable(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoadTableShape(t *testing.T) {
	const n = 50
	var sb strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "%.4f %.4f\n", float64(i)*0.37, (float64(i)+0.5)/n)
	}
	path := filepath.Join(t.TempDir(), "run-ee.dat")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0644))

	got, err := LoadTable(path)
	require.NoError(t, err)
	require.Equal(t, n, got.Len())
	for i := 0; i < n; i++ {
		x, y := got.XY(i)
		assert.InDelta(t, float64(i)*0.37, x, 1e-4)
		assert.InDelta(t, (float64(i)+0.5)/n, y, 1e-4)
	}
}

func TestLoadTableMissing(t *testing.T) {
	_, err := LoadTable(filepath.Join(t.TempDir(), "nope-ee.dat"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(errors.Cause(err)))
}

func TestLoadTableNamesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad-ee.dat")
	require.NoError(t, os.WriteFile(path, []byte("1 2 3\n"), 0644))

	_, err := LoadTable(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}
