//
// Copyright (C) 2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package feature

import (
	"math/rand"
	"sort"
	"strconv"
	"testing"

	"github.com/biogo/store/interval"

	qt "github.com/frankban/quicktest"
)

func TestNewBinIndexDefaultWidth(t *testing.T) {
	c := qt.New(t)
	c.Assert(NewBinIndex(0).Width, qt.Equals, DefaultBinWidth)
	c.Assert(NewBinIndex(500).Width, qt.Equals, 500)
}

func TestBinIndexSpanRegistration(t *testing.T) {
	c := qt.New(t)
	e := &Exon{Transcript: "T1", Number: 1, Chrom: "chr1", Start: 9500, Stop: 30500, Strand: 1, Gene: "G1"}
	idx := BuildBinIndex([]*Exon{e}, 10000)

	// The exon span touches bins 0, 10000, 20000 and 30000: a query from any
	// of them returns the exon.
	for _, pos := range []int{9500, 10000, 15000, 25000, 30500} {
		candidates := idx.CandidatesAt("chr1", pos)
		c.Assert(candidates, qt.HasLen, 1, qt.Commentf("pos %d", pos))
		c.Assert(candidates[0], qt.Equals, e)
	}
	c.Assert(idx.CandidatesAt("chr1", 40001), qt.HasLen, 0)
	c.Assert(idx.CandidatesAt("chr9", 9500), qt.IsNil)

	c.Assert(idx.HasChrom("chr1"), qt.IsTrue)
	c.Assert(idx.HasChrom("chr9"), qt.IsFalse)
	c.Assert(idx.Len(), qt.Equals, 1)
	c.Assert(idx.Chroms(), qt.DeepEquals, []string{"chr1"})
}

func TestBinIndexSharedBin(t *testing.T) {
	c := qt.New(t)
	// Disjoint exons sharing a bin are candidates of each other's positions
	e1 := &Exon{Transcript: "T1", Number: 1, Chrom: "chr1", Start: 1000, Stop: 1099, Strand: 1, Gene: "G1"}
	e2 := &Exon{Transcript: "T2", Number: 1, Chrom: "chr1", Start: 5000, Stop: 5099, Strand: -1, Gene: "G2"}
	idx := BuildBinIndex([]*Exon{e1, e2}, 10000)

	candidates := idx.CandidatesAt("chr1", 1050)
	c.Assert(candidates, qt.HasLen, 2)
	c.Assert(candidates[0], qt.Equals, e1)
	c.Assert(candidates[1], qt.Equals, e2)
}

func binIDs(idx *BinIndex) map[string]map[int][]string {
	ids := make(map[string]map[int][]string)
	for chrom, chromBins := range idx.Bins {
		ids[chrom] = make(map[int][]string)
		for b, exons := range chromBins {
			for _, e := range exons {
				ids[chrom][b] = append(ids[chrom][b], e.ID())
			}
		}
	}
	return ids
}

func TestBuildBinIndexIdempotent(t *testing.T) {
	c := qt.New(t)
	exons := []*Exon{
		{Transcript: "T1", Number: 1, Chrom: "chr1", Start: 100, Stop: 25000, Strand: 1, Gene: "G1"},
		{Transcript: "T1", Number: 2, Chrom: "chr1", Start: 30000, Stop: 31000, Strand: 1, Gene: "G1"},
		{Transcript: "T2", Number: 1, Chrom: "chr2", Start: 100, Stop: 200, Strand: -1, Gene: "G2"},
	}
	first := BuildBinIndex(exons, 10000)
	second := BuildBinIndex(exons, 10000)
	c.Assert(binIDs(second), qt.DeepEquals, binIDs(first))
}

// treeIval adapts an exon span to the half-open intervals of the reference
// interval tree.
type treeIval struct {
	start, end int
	uid        uintptr
	exon       *Exon
}

func (iv treeIval) Overlap(b interval.IntRange) bool {
	// Half-open interval indexing.
	return iv.end > b.Start && iv.start < b.End
}

func (iv treeIval) ID() uintptr {
	return iv.uid
}

func (iv treeIval) Range() interval.IntRange {
	return interval.IntRange{Start: iv.start, End: iv.end}
}

// TestBinIndexOracle cross-checks point queries against an interval tree.
func TestBinIndexOracle(t *testing.T) {
	c := qt.New(t)
	r := rand.New(rand.NewSource(1))
	chroms := []string{"chr1", "chr2", "chrX"}

	var exons []*Exon
	trees := make(map[string]*interval.IntTree)
	for _, chrom := range chroms {
		trees[chrom] = &interval.IntTree{}
	}
	for i := 0; i < 300; i++ {
		start := 1 + r.Intn(200000)
		e := &Exon{
			Transcript: "T" + strconv.Itoa(i),
			Number:     1,
			Chrom:      chroms[r.Intn(len(chroms))],
			Start:      start,
			Stop:       start + r.Intn(30000),
			Strand:     1,
			Gene:       "G" + strconv.Itoa(i),
		}
		exons = append(exons, e)
		err := trees[e.Chrom].Insert(treeIval{start: e.Start, end: e.Stop + 1, uid: uintptr(i), exon: e}, false)
		c.Assert(err, qt.IsNil)
	}
	for _, tree := range trees {
		tree.AdjustRanges()
	}

	idx := BuildBinIndex(exons, 7000)

	for i := 0; i < 2000; i++ {
		chrom := chroms[r.Intn(len(chroms))]
		pos := 1 + r.Intn(250000)

		var fromBins []string
		for _, e := range idx.CandidatesAt(chrom, pos) {
			if e.Start <= pos && pos <= e.Stop {
				fromBins = append(fromBins, e.ID())
			}
		}
		sort.Strings(fromBins)

		var fromTree []string
		for _, iv := range trees[chrom].Get(treeIval{start: pos, end: pos + 1}) {
			fromTree = append(fromTree, iv.(treeIval).exon.ID())
		}
		sort.Strings(fromTree)

		c.Assert(fromBins, qt.DeepEquals, fromTree, qt.Commentf("%s:%d", chrom, pos))
	}
}
