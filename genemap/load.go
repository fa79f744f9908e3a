package genemap

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/carbocation/pfx"
	"github.com/csimplestring/go-csv/detector"
	"github.com/gocarina/gocsv"
)

// MapRow is one row of the genetic map table: a position on a chromosome.
// Rows are consumed in file order, which fixes the position ordering per
// chromosome.
type MapRow struct {
	Chromosome string `csv:"chromosome"`
	Position   string `csv:"position"`
}

// LabelRow is one row of the founder-label table: the imputed founder for one
// line at one position.
type LabelRow struct {
	Position string `csv:"position"`
	Line     string `csv:"line"`
	Founder  int    `csv:"founder"`
}

// DetermineDelimiter returns the single most likely rune that would delimit
// the values in the reader, assuming a CSV-like file.
func DetermineDelimiter(r io.Reader) rune {
	d := detector.New()
	delimiters := d.DetectDelimiter(r, '"')

	if len(delimiters) > 0 {
		return rune(delimiters[0][0])
	}

	return ','
}

// ReadTable unmarshals a delimited file into out (a pointer to a slice of
// csv-tagged structs), sniffing the delimiter first.
func ReadTable(path string, out interface{}) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return pfx.Err(err)
	}

	comma := DetermineDelimiter(bytes.NewReader(raw))
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		r := csv.NewReader(in)
		r.Comma = comma
		return r
	})
	defer gocsv.SetCSVReader(gocsv.DefaultCSVReader)

	if err := gocsv.UnmarshalBytes(raw, out); err != nil {
		return pfx.Err(err)
	}

	return nil
}

// LoadCSV assembles an in-memory Map from a map table and a founder-label
// table. lineOrder fixes the line index assignment and must cover every line
// named in the label table.
func LoadCSV(mapPath, labelPath string, lineOrder []string, founders int) (*InMemory, error) {
	var mapRows []*MapRow
	if err := ReadTable(mapPath, &mapRows); err != nil {
		return nil, fmt.Errorf("genemap: reading %s: %w", mapPath, err)
	}

	var labelRows []*LabelRow
	if err := ReadTable(labelPath, &labelRows); err != nil {
		return nil, fmt.Errorf("genemap: reading %s: %w", labelPath, err)
	}

	lineIndex := make(map[string]int, len(lineOrder))
	for i, id := range lineOrder {
		lineIndex[id] = i
	}

	chromosomes := make([]string, 0)
	seenChrom := make(map[string]struct{})
	positions := make(map[string][]string)
	for _, row := range mapRows {
		if _, seen := seenChrom[row.Chromosome]; !seen {
			seenChrom[row.Chromosome] = struct{}{}
			chromosomes = append(chromosomes, row.Chromosome)
		}
		positions[row.Chromosome] = append(positions[row.Chromosome], row.Position)
	}

	labels := make(map[string][]int)
	for _, row := range labelRows {
		idx, known := lineIndex[row.Line]
		if !known {
			return nil, fmt.Errorf("genemap: label table names line %q absent from the measurement table", row.Line)
		}
		lab := labels[row.Position]
		if lab == nil {
			lab = make([]int, len(lineOrder))
			labels[row.Position] = lab
		}
		lab[idx] = row.Founder
	}

	return New(chromosomes, positions, labels, founders)
}
