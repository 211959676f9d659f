//
// Copyright (C) 2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"
	"time"

	"git.sr.ht/~vejnar/ExonLedger/lib/covdb"
	"git.sr.ht/~vejnar/ExonLedger/lib/cover"
	"git.sr.ht/~vejnar/ExonLedger/lib/feature"
	"git.sr.ht/~vejnar/ExonLedger/lib/junction"
)

var version = "DEV"

type junctionInput struct {
	path  string
	table string
}

func main() {
	// Arguments: General
	var pathReport string
	var nWorker, verboseLevel int
	var verbose, printVersion bool
	flag.StringVar(&pathReport, "path_report", "", "Write report to path (stdout with -)")
	flag.IntVar(&nWorker, "num_worker", 1, "Number of worker(s)")
	flag.IntVar(&verboseLevel, "verbose_level", 0, "Verbose level")
	flag.BoolVar(&verbose, "verbose", false, "Verbose")
	flag.BoolVar(&printVersion, "version", false, "Print version and quit")
	// Arguments: Input
	var pathGTF, pathWig, pathWigPos, pathWigNeg, pathSJ, pathCircle, pathChromsMapping string
	flag.StringVar(&pathGTF, "path_gtf", "", "Path to GTF annotation file")
	flag.StringVar(&pathWig, "path_wig", "", "Path to unstranded wig file (overrides -path_wig_pos and -path_wig_neg)")
	flag.StringVar(&pathWigPos, "path_wig_pos", "", "Path to positive strand wig file")
	flag.StringVar(&pathWigNeg, "path_wig_neg", "", "Path to negative strand wig file")
	flag.StringVar(&pathSJ, "path_sj", "", "Path to canonical splice junction file (chromosome, start, stop, strand, counts)")
	flag.StringVar(&pathCircle, "path_circle", "", "Path to backsplice junction file (chromosome, start, stop, strand, counts)")
	flag.StringVar(&pathChromsMapping, "path_chrom_alias", "", "Path to signal-to-annotation chromosome name(s) mapping (tabulated file)")
	// Arguments: Index
	var binWidth int
	flag.IntVar(&binWidth, "bin_width", feature.DefaultBinWidth, "Width of the index bins")
	// Arguments: Output
	var pathDB, pathCounts, countsFormat string
	flag.StringVar(&pathDB, "path_db", "coverage.db", "Path to output database")
	flag.StringVar(&pathCounts, "path_counts", "", "Path to CSV export of the coverage table")
	flag.StringVar(&countsFormat, "counts_format", "csv", "CSV export format: 'csv', 'csv+lz4' or 'csv+lz4hc'")
	// Arguments: Parse
	flag.Parse()

	// Version
	if printVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	// Verbose
	if verbose && verboseLevel == 0 {
		verboseLevel = 1
	}

	// Max CPU
	runtime.GOMAXPROCS(nWorker * 2)

	// Time start
	var timeStart time.Time
	if verboseLevel > 0 {
		timeStart = time.Now()
	}

	// Check arguments
	if len(pathGTF) == 0 {
		log.Fatal("No GTF input")
	} else if _, err := os.Stat(pathGTF); os.IsNotExist(err) {
		log.Fatalln(pathGTF, "not found")
	}

	// Signal sources
	var sources []cover.Source
	if len(pathWig) > 0 {
		if len(pathWigPos) > 0 || len(pathWigNeg) > 0 {
			log.Println("Warning: -path_wig overrides -path_wig_pos and -path_wig_neg")
		}
		sources = append(sources, cover.Source{Path: pathWig})
	} else {
		if len(pathWigNeg) > 0 {
			sources = append(sources, cover.Source{Path: pathWigNeg, Strand: -1})
		}
		if len(pathWigPos) > 0 {
			sources = append(sources, cover.Source{Path: pathWigPos, Strand: 1})
		}
	}
	for _, src := range sources {
		if _, err := os.Stat(src.Path); os.IsNotExist(err) {
			log.Fatalln(src.Path, "not found")
		}
	}

	// Junction inputs
	var junctionInputs []junctionInput
	if len(pathSJ) > 0 {
		junctionInputs = append(junctionInputs, junctionInput{path: pathSJ, table: "canonical"})
	}
	if len(pathCircle) > 0 {
		junctionInputs = append(junctionInputs, junctionInput{path: pathCircle, table: "circle"})
	}
	var junctionTables []string
	for _, ji := range junctionInputs {
		if _, err := os.Stat(ji.path); os.IsNotExist(err) {
			log.Fatalln(ji.path, "not found")
		}
		junctionTables = append(junctionTables, ji.table)
	}

	// Open output database before parsing any input
	db, err := covdb.Create(pathDB, junctionTables)
	if err != nil {
		log.Fatal(err)
	}

	// Open chromosome mapping
	var chromsMapping map[string]string
	if pathChromsMapping != "" {
		chromsMapping, err = feature.OpenMapping(pathChromsMapping)
		if err != nil {
			log.Fatal(err)
		}
	}

	// Open annotation
	if verboseLevel > 0 {
		timeNow := time.Now()
		fmt.Printf("%.1fmin - Opening %s\n", timeNow.Sub(timeStart).Minutes(), pathGTF)
	}
	exons, nMalformed, err := feature.OpenGTF(pathGTF, nWorker, timeStart, verboseLevel)
	if err != nil {
		log.Fatal(err)
	}
	if nMalformed > 0 {
		log.Printf("Warning: %d malformed annotation record(s) skipped", nMalformed)
	}

	// Build bin index
	idx := feature.BuildBinIndex(exons, binWidth)
	if verboseLevel > 0 {
		timeNow := time.Now()
		fmt.Printf("%.1fmin - %s exons on %d chromosome(s)\n", timeNow.Sub(timeStart).Minutes(), feature.AddCommas(strconv.Itoa(len(exons))), idx.Len())
	}

	// Accumulate signal on exons
	stats, err := cover.Cover(sources, idx, chromsMapping, nWorker, timeStart, verboseLevel)
	if err != nil {
		log.Fatal(err)
	}

	// Summarize and store coverage
	rows := feature.Summarize(exons)
	if err = db.InsertCoverage(rows); err != nil {
		log.Fatal(err)
	}

	// Load and store junctions
	junctionCounts := make(map[string]int)
	for _, ji := range junctionInputs {
		if verboseLevel > 0 {
			timeNow := time.Now()
			fmt.Printf("%.1fmin - Opening %s\n", timeNow.Sub(timeStart).Minutes(), ji.path)
		}
		junctions, err := junction.Open(ji.path, nWorker)
		if err != nil {
			log.Fatal(err)
		}
		if err = db.InsertJunctions(ji.table, junctions); err != nil {
			log.Fatal(err)
		}
		junctionCounts[ji.table] = len(junctions)
	}

	if err = db.Close(); err != nil {
		log.Fatal(err)
	}

	// Output: CSV export
	if pathCounts != "" {
		if verboseLevel > 0 {
			timeNow := time.Now()
			fmt.Printf("%.1fmin - Writing %s output in %s\n", timeNow.Sub(timeStart).Minutes(), countsFormat, pathCounts)
		}
		if err = feature.WriteCoverageCSV(rows, pathCounts, countsFormat); err != nil {
			log.Fatal(err)
		}
	}

	// Output: Report
	if pathReport != "" {
		if err = WriteReport(pathReport, len(exons), nMalformed, idx.Len(), stats, rows, junctionCounts); err != nil {
			log.Fatal(err)
		}
	}

	// Verbose
	if verboseLevel > 0 {
		timeEnd := time.Now()
		fmt.Printf("%.1fmin - Done %s exons - %s points\n", timeEnd.Sub(timeStart).Minutes(), feature.AddCommas(strconv.Itoa(len(exons))), feature.AddCommas(strconv.FormatUint(stats.Points, 10)))
	}
}
