//
// Copyright (C) 2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package feature

import (
	"sort"
)

// DefaultBinWidth is the reference width of the index bins.
const DefaultBinWidth = 10000

// BinIndex indexes exons by chromosome and genomic bin. Bins are created
// when the first exon is registered in them. An exon is registered in every
// bin its span touches, so a point query in any bin returns all exons whose
// span could contain the point.
type BinIndex struct {
	Width int
	Bins  map[string]map[int][]*Exon
}

// NewBinIndex returns an empty index with the requested bin width.
func NewBinIndex(width int) *BinIndex {
	if width <= 0 {
		width = DefaultBinWidth
	}
	return &BinIndex{Width: width, Bins: make(map[string]map[int][]*Exon)}
}

// Register adds an exon to every bin between its start and stop.
func (idx *BinIndex) Register(e *Exon) {
	chromBins, ok := idx.Bins[e.Chrom]
	if !ok {
		chromBins = make(map[int][]*Exon)
		idx.Bins[e.Chrom] = chromBins
	}
	last := idx.Width * (e.Stop / idx.Width)
	for b := idx.Width * (e.Start / idx.Width); b <= last; b += idx.Width {
		chromBins[b] = append(chromBins[b], e)
	}
}

// CandidatesAt returns the exons registered in the bin containing pos on
// chrom. The returned exons are candidates: their span is not checked
// against pos. The result is nil for an unknown chromosome or an empty bin.
func (idx *BinIndex) CandidatesAt(chrom string, pos int) []*Exon {
	chromBins, ok := idx.Bins[chrom]
	if !ok {
		return nil
	}
	return chromBins[idx.Width*(pos/idx.Width)]
}

// HasChrom reports whether at least one exon was registered on chrom.
func (idx *BinIndex) HasChrom(chrom string) bool {
	_, ok := idx.Bins[chrom]
	return ok
}

// Chroms returns the sorted chromosomes of the index.
func (idx *BinIndex) Chroms() []string {
	chroms := make([]string, 0, len(idx.Bins))
	for chrom := range idx.Bins {
		chroms = append(chroms, chrom)
	}
	sort.Strings(chroms)
	return chroms
}

// Len returns the number of chromosomes of the index.
func (idx *BinIndex) Len() int {
	return len(idx.Bins)
}

// BuildBinIndex builds an index of exons: each exon is registered in the
// bin(s) covering its span on its chromosome.
func BuildBinIndex(exons []*Exon, width int) *BinIndex {
	idx := NewBinIndex(width)
	for _, e := range exons {
		idx.Register(e)
	}
	return idx
}
