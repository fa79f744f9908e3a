package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"gopkg.in/guregu/null.v3"

	"github.com/magicqtl/markercall"
)

type consensusRow struct {
	Line        string   `csv:"line"`
	Group       null.Int `csv:"consensus_group"`
	Status      string   `csv:"status"`
	Preliminary int      `csv:"preliminary_group"`
}

type positionRow struct {
	Line       string   `csv:"line"`
	Chromosome string   `csv:"chromosome"`
	Position   string   `csv:"position"`
	Call       null.Int `csv:"group_call"`
	Founders   string   `csv:"group_founders"`
}

func writeConsensus(path string, result *markercall.Result) error {
	rows := make([]*consensusRow, 0, len(result.Lines))
	for i, line := range result.Lines {
		rows = append(rows, &consensusRow{
			Line:        line,
			Group:       result.Consensus[i],
			Status:      string(result.Status[i]),
			Preliminary: result.Preliminary[i],
		})
	}

	return writeCSV(path, &rows)
}

func writePositions(path string, result *markercall.Result) error {
	rows := make([]*positionRow, 0, len(result.Lines)*len(result.Positions))
	for _, pc := range result.Positions {
		for i, line := range result.Lines {
			row := &positionRow{
				Line:       line,
				Chromosome: pc.Chromosome,
				Position:   pc.Position,
				Call:       pc.Calls[i],
			}
			if pc.Calls[i].Valid {
				row.Founders = founderList(pc.Founders[pc.Calls[i].Int64-1])
			}
			rows = append(rows, row)
		}
	}

	return writeCSV(path, &rows)
}

// founderList renders a founder group like 1+2+5.
func founderList(founders []int) string {
	parts := make([]string, len(founders))
	for i, f := range founders {
		parts[i] = fmt.Sprint(f)
	}
	return strings.Join(parts, "+")
}

func writeCSV(path string, rows interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return gocsv.Marshal(rows, f)
}
