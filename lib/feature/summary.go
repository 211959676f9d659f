//
// Copyright (C) 2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package feature

// CoverageRow is the flat, per-exon output record.
type CoverageRow struct {
	Gene       string
	Transcript string
	Exon       int
	Coverage   float64
	Chrom      string
	Start      int
	Stop       int
	Strand     string
}

// Summarize flattens the catalog into one coverage row per exon, in catalog
// order. The catalog is iterated directly, not through the index bins, so
// exons spanning several bins yield exactly one row.
func Summarize(exons []*Exon) []CoverageRow {
	rows := make([]CoverageRow, len(exons))
	for i, e := range exons {
		rows[i] = CoverageRow{
			Gene:       e.Gene,
			Transcript: e.Transcript,
			Exon:       e.Number,
			Coverage:   e.Coverage(),
			Chrom:      e.Chrom,
			Start:      e.Start,
			Stop:       e.Stop,
			Strand:     FormatStrand(e.Strand),
		}
	}
	return rows
}
