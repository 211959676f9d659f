//
// Copyright (C) 2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"gonum.org/v1/gonum/stat"

	"git.sr.ht/~vejnar/ExonLedger/lib/cover"
	"git.sr.ht/~vejnar/ExonLedger/lib/feature"
)

func WriteReport(pathReport string, nExon, nMalformed, nChrom int, stats *cover.Stats, rows []feature.CoverageRow, junctionCounts map[string]int) (err error) {
	sourcesReport := make([]map[string]interface{}, len(stats.Sources))
	for i, src := range stats.Sources {
		sourcesReport[i] = map[string]interface{}{
			"path":    src.Path,
			"lines":   src.Lines,
			"points":  src.Points,
			"matched": src.Matched,
			"dropped": src.Dropped,
		}
	}
	report := map[string]interface{}{
		"exons":               nExon,
		"malformed_records":   nMalformed,
		"chromosomes":         nChrom,
		"signal_points":       stats.Points,
		"signal_matched":      stats.Matched,
		"signal_dropped":      stats.Dropped,
		"unknown_chromosomes": stats.UnknownChroms,
		"sources":             sourcesReport,
		"junctions":           junctionCounts,
	}
	if len(rows) > 0 {
		coverages := make([]float64, len(rows))
		for i, row := range rows {
			coverages[i] = row.Coverage
		}
		sort.Float64s(coverages)
		report["coverage_mean"] = stat.Mean(coverages, nil)
		report["coverage_median"] = stat.Quantile(0.5, stat.Empirical, coverages, nil)
		report["coverage_max"] = coverages[len(coverages)-1]
	}
	reportJSON, _ := json.MarshalIndent(report, "", "  ")
	if pathReport != "-" {
		if f, err := os.Create(pathReport); err != nil {
			return err
		} else {
			f.Write(reportJSON)
			f.Close()
		}
	} else {
		fmt.Println(string(reportJSON))
	}
	return nil
}
