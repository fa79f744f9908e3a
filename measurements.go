package markercall

import (
	"fmt"
	"io"

	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/guregu/null.v3"
)

// Measurements holds the per-line continuous observations for one marker:
// one row per line, one or two response columns. Immutable once built.
type Measurements struct {
	lines []string
	index map[string]int
	vals  *mat.Dense
}

// NewMeasurements builds a measurement table from parallel slices. Every
// value row must have the same length, either 1 or 2.
func NewMeasurements(lines []string, values [][]float64) (*Measurements, error) {
	if len(lines) == 0 || len(lines) != len(values) {
		return nil, fmt.Errorf("markercall: %d line IDs against %d value rows", len(lines), len(values))
	}

	dims := len(values[0])
	if dims != 1 && dims != 2 {
		return nil, fmt.Errorf("markercall: measurements must have 1 or 2 dimensions, got %d", dims)
	}

	index := make(map[string]int, len(lines))
	vals := mat.NewDense(len(lines), dims, nil)
	for i, id := range lines {
		if _, dup := index[id]; dup {
			return nil, fmt.Errorf("markercall: duplicate line identifier %q", id)
		}
		index[id] = i
		if len(values[i]) != dims {
			return nil, fmt.Errorf("markercall: line %q has %d values, want %d", id, len(values[i]), dims)
		}
		for j, v := range values[i] {
			vals.Set(i, j, v)
		}
	}

	return &Measurements{lines: lines, index: index, vals: vals}, nil
}

// NumLines returns the number of measured lines.
func (m *Measurements) NumLines() int { return len(m.lines) }

// Dims returns the number of response dimensions (1 or 2).
func (m *Measurements) Dims() int { _, d := m.vals.Dims(); return d }

// Lines returns the line identifiers in index order.
func (m *Measurements) Lines() []string { return m.lines }

// Row returns line i's observation.
func (m *Measurements) Row(i int) []float64 { return mat.Row(nil, i, m.vals) }

// Values returns the full n x d observation matrix.
func (m *Measurements) Values() *mat.Dense { return m.vals }

// Subset returns the observation rows for the given line indices as a dense
// matrix, preserving order.
func (m *Measurements) Subset(rows []int) *mat.Dense {
	_, d := m.vals.Dims()
	out := mat.NewDense(len(rows), d, nil)
	for k, i := range rows {
		for j := 0; j < d; j++ {
			out.Set(k, j, m.vals.At(i, j))
		}
	}
	return out
}

// measurementRow is the CSV shape for one line: a mandatory first response
// and an optional second.
type measurementRow struct {
	Line string     `csv:"line"`
	X    float64    `csv:"x"`
	Y    null.Float `csv:"y"`
}

// ReadMeasurements parses a measurement table from r. The second response
// column is optional but must be present for all lines or none.
func ReadMeasurements(r io.Reader) (*Measurements, error) {
	var rows []*measurementRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, pfx.Err(err)
	}

	lines := make([]string, 0, len(rows))
	values := make([][]float64, 0, len(rows))
	twoDim := len(rows) > 0 && rows[0].Y.Valid
	for _, row := range rows {
		if row.Y.Valid != twoDim {
			return nil, fmt.Errorf("markercall: line %q: second response must be present for all lines or none", row.Line)
		}
		lines = append(lines, row.Line)
		if twoDim {
			values = append(values, []float64{row.X, row.Y.Float64})
		} else {
			values = append(values, []float64{row.X})
		}
	}

	return NewMeasurements(lines, values)
}
