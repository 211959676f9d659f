//
// Copyright (C) 2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package feature

import (
	"strconv"
)

// Exon is one annotated exon with its accumulated signal samples.
// Start and Stop are 1-based and inclusive.
type Exon struct {
	Transcript string
	Number     int
	Chrom      string
	Start      int
	Stop       int
	Strand     int8
	Gene       string
	Samples    []float64
}

// ID returns the exon identity, i.e. transcript and exon number.
func (e *Exon) ID() string {
	return e.Transcript + "__" + strconv.Itoa(e.Number)
}

// Length returns the length of the exon
func (e *Exon) Length() int {
	return 1 + e.Stop - e.Start
}

// Coverage returns the accumulated signal normalized by the exon length.
func (e *Exon) Coverage() float64 {
	var sum float64
	for _, v := range e.Samples {
		sum += v
	}
	return sum / float64(e.Length())
}

// ParseStrand parses a strand written as +/- or +1/-1. Anything else is
// unstranded.
func ParseStrand(strandRaw string) int8 {
	if strandRaw == "+" || strandRaw == "1" || strandRaw == "+1" {
		return 1
	}
	if strandRaw == "-" || strandRaw == "-1" {
		return -1
	}
	return 0
}

// FormatStrand formats a strand as +, - or . for unstranded.
func FormatStrand(strand int8) string {
	if strand == 1 {
		return "+"
	}
	if strand == -1 {
		return "-"
	}
	return "."
}

// AddCommas adds commas after every 3 characters.
func AddCommas(s string) string {
	if len(s) <= 3 {
		return s
	} else {
		return AddCommas(s[0:len(s)-3]) + "," + s[len(s)-3:]
	}
}
