// Markercall assigns genotype calls to a single marker measured on a
// multi-parent population, from a measurement table plus a genetic map with
// imputed founder origins. Uncallable markers exit non-zero with the failure
// kind.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/magicqtl/markercall"
	"github.com/magicqtl/markercall/genemap"
	"github.com/magicqtl/markercall/pairwise"
)

func main() {
	var (
		measurementFile string
		mapFile         string
		labelFile       string
		configFile      string
		outFile         string
		positionOutFile string
		thresholds      string
	)

	params := markercall.DefaultParams()

	flag.StringVar(&measurementFile, "measurements", "", "Filename of the measurement table (columns: line, x, optional y).")
	flag.StringVar(&mapFile, "map", "", "Filename of the genetic map table (columns: chromosome, position; rows in map order).")
	flag.StringVar(&labelFile, "labels", "", "Filename of the imputed founder-label table (columns: position, line, founder).")
	flag.StringVar(&configFile, "config", "", "Optional. TOML file of calling parameters; overrides the parameter flags.")
	flag.StringVar(&outFile, "out", "consensus.csv", "Output filename for the per-line consensus assignment.")
	flag.StringVar(&positionOutFile, "positionout", "positions.csv", "Output filename for the per-position calls.")
	flag.Float64Var(&params.ThresholdChromosomes, "thresholdchrom", params.ThresholdChromosomes, "Association-score cutoff per chromosome.")
	flag.IntVar(&params.MaxChromosomes, "maxchrom", params.MaxChromosomes, "Reject the marker when more chromosomes than this exceed the cutoff.")
	flag.Float64Var(&params.TDistributionPValue, "tpvalue", params.TDistributionPValue, "Probability mass enclosed by each group's density contour (0-1).")
	flag.StringVar(&thresholds, "clusterthresholds", "", "Optional. Comma-separated candidate significance thresholds, tried in order (e.g. 1e-10,1e-20).")
	flag.Parse()

	if measurementFile == "" || mapFile == "" || labelFile == "" {
		flag.PrintDefaults()
		return
	}

	if thresholds != "" {
		parsed, err := parseThresholds(thresholds)
		if err != nil {
			log.Fatalln(err)
		}
		params.ThresholdAlleleClusters = parsed
	}

	if configFile != "" {
		if _, err := toml.DecodeFile(configFile, &params); err != nil {
			log.Fatalln(err)
		}
	}

	mf, err := os.Open(measurementFile)
	if err != nil {
		log.Fatalln(err)
	}
	meas, err := markercall.ReadMeasurements(mf)
	mf.Close()
	if err != nil {
		log.Fatalln(err)
	}
	log.Println("Loaded", meas.NumLines(), "lines with", meas.Dims(), "response dimension(s)")

	gm, err := genemap.LoadCSV(mapFile, labelFile, meas.Lines(), pairwise.NumFounders)
	if err != nil {
		log.Fatalln(err)
	}
	log.Println("Loaded map with", len(gm.Chromosomes()), "chromosomes")

	caller := &markercall.Caller{Map: gm, Params: params}
	result, err := caller.Call(context.Background(), meas)
	if err != nil {
		log.Fatalln("Marker is uncallable:", err)
	}

	log.Println("Accepted significance threshold:", result.Threshold)
	log.Println("Combined groups:", result.Groups)

	if err := writeConsensus(outFile, result); err != nil {
		log.Fatalln(err)
	}
	if err := writePositions(positionOutFile, result); err != nil {
		log.Fatalln(err)
	}

	assigned := 0
	for _, status := range result.Status {
		if status == markercall.StatusAssigned {
			assigned++
		}
	}
	log.Println(assigned, "of", len(result.Lines), "lines assigned")
}

func parseThresholds(raw string) ([]float64, error) {
	fields := strings.Split(raw, ",")
	out := make([]float64, 0, len(fields))
	for _, field := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, fmt.Errorf("parsing threshold %q: %w", field, err)
		}
		out = append(out, v)
	}
	return out, nil
}
