//
// Copyright (C) 2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package wig

import (
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
)

type point struct {
	Chrom string
	Pos   int
	Value float64
}

func scanAll(c *qt.C, in string) []point {
	sc := NewScanner(strings.NewReader(in))
	var points []point
	for sc.Scan() {
		points = append(points, point{sc.Chrom(), sc.Pos(), sc.Value()})
	}
	c.Assert(sc.Err(), qt.IsNil)
	return points
}

func TestScanner(t *testing.T) {
	c := qt.New(t)
	in := "variableStep chrom=chr1 span=1\n" +
		"1000\t2.0\n" +
		"1050\t4.0\n" +
		"variableStep chrom=chr2\n" +
		"75\t1.5\n"
	c.Assert(scanAll(c, in), qt.DeepEquals, []point{
		{"chr1", 1000, 2.0},
		{"chr1", 1050, 4.0},
		{"chr2", 75, 1.5},
	})
}

func TestScannerLooseLines(t *testing.T) {
	c := qt.New(t)
	// Blank lines are skipped, fields beyond position and value are ignored,
	// and values may be space separated
	in := "variableStep chrom=chr1\n" +
		"\n" +
		"10 1.25 extra\n" +
		"20\t2.5e1\n"
	c.Assert(scanAll(c, in), qt.DeepEquals, []point{
		{"chr1", 10, 1.25},
		{"chr1", 20, 25.0},
	})
}

func TestScannerEmptyChromosome(t *testing.T) {
	c := qt.New(t)
	// A declaration without points only switches the chromosome
	in := "variableStep chrom=chr1\n" +
		"variableStep chrom=chr2\n" +
		"10\t1.0\n"
	c.Assert(scanAll(c, in), qt.DeepEquals, []point{{"chr2", 10, 1.0}})
}

func TestScannerLine(t *testing.T) {
	c := qt.New(t)
	sc := NewScanner(strings.NewReader("variableStep chrom=chr1\n10\t1.0\n"))
	for sc.Scan() {
	}
	c.Assert(sc.Err(), qt.IsNil)
	c.Assert(sc.Line(), qt.Equals, 2)
}

func TestScannerMalformed(t *testing.T) {
	c := qt.New(t)
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"data before declaration", "1000\t2.0\n", `signal line 1: data before chromosome declaration`},
		{"missing chromosome", "variableStep span=1\n", `signal line 1: declaration line is missing the chromosome name`},
		{"missing value", "variableStep chrom=chr1\n1000\n", `signal line 2: invalid data line "1000"`},
		{"invalid position", "variableStep chrom=chr1\nabc\t2.0\n", `signal line 2: invalid position "abc"`},
		{"invalid value", "variableStep chrom=chr1\n1000\ttwo\n", `signal line 2: invalid value "two"`},
		{"track header", "track type=wiggle_0\nvariableStep chrom=chr1\n1000\t2.0\n", `signal line 1: data before chromosome declaration`},
	}
	for _, tt := range tests {
		sc := NewScanner(strings.NewReader(tt.in))
		c.Assert(sc.Scan(), qt.IsFalse, qt.Commentf("%s", tt.name))
		c.Assert(sc.Err(), qt.ErrorMatches, tt.want, qt.Commentf("%s", tt.name))
		// Scan keeps failing after an error
		c.Assert(sc.Scan(), qt.IsFalse, qt.Commentf("%s", tt.name))
	}
}
