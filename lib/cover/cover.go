//
// Copyright (C) 2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package cover

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"gopkg.in/fatih/set.v0"

	"git.sr.ht/~vejnar/ExonLedger/lib/feature"
	"git.sr.ht/~vejnar/ExonLedger/lib/wig"
	"git.sr.ht/~vejnar/ExonLedger/lib/zopen"
)

const (
	cacheLength  = 64
	sPointLength = 512
)

// Source is one signal input: a wiggle file and the strand its points are
// attributed to. Points of an unstranded source (strand 0) are attributed to
// exons of any strand.
type Source struct {
	Path   string
	Strand int8
}

// SourceStats counts what happened to one source.
type SourceStats struct {
	Path    string
	Lines   int
	Points  uint64
	Matched uint64
	Dropped uint64
}

// Stats counts what happened to all sources. Matched is the number of
// point-to-exon attributions, Dropped the number of points on chromosomes
// missing from the annotation.
type Stats struct {
	Sources       []SourceStats
	Lines         int
	Points        uint64
	Matched       uint64
	Dropped       uint64
	UnknownChroms []string
}

// Point is one signal value at a 1-based genomic position.
type Point struct {
	Pos   int
	Value float64
}

type block struct {
	src    int
	chrom  string
	strand int8
	points []Point
}

// Hit is one point value attributed to one exon.
type Hit struct {
	Exon  *feature.Exon
	Value float64
}

type Cache struct {
	Src     int
	Hits    []Hit
	LastHit int
}

func NewCache(size int) *Cache {
	c := Cache{}
	c.Hits = make([]Hit, size)
	return &c
}

func (c *Cache) Grow() {
	osize := len(c.Hits)
	nsize := int(float64(osize) * 1.5)
	c.Hits = append(c.Hits, make([]Hit, nsize-osize)...)
}

func Max(x, y int) int {
	if x > y {
		return x
	}
	return y
}

// Cover streams the signal sources and accumulates point values into the
// exons of idx. A point is attributed to every exon whose span contains its
// position, on the matching strand. Sources are read sequentially by one
// goroutine, bin lookups run on worker goroutine(s), and a single merge
// loop appends into the exon accumulators.
func Cover(sources []Source, idx *feature.BinIndex, chromsMapping map[string]string, nWorker int, timeStart time.Time, verboseLevel int) (*Stats, error) {
	stats := &Stats{Sources: make([]SourceStats, len(sources))}
	for i := range sources {
		stats.Sources[i].Path = sources[i].Path
	}

	// Workers
	nWorker1 := Max(1, int(nWorker/2.))
	nWorker2 := Max(1, nWorker-nWorker1)

	// Chromosomes missing from the annotation, each reported once
	unknownChroms := set.New(set.ThreadSafe)

	// Init context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	// Start sync errgroup
	g, gctx := errgroup.WithContext(ctx)

	// Start receiving channel
	chFinal := make(chan *Cache, nWorker*10)
	// Start point channel
	chPoint := make(chan *block, nWorker*10)

	g.Go(func() error {
		defer close(chPoint)
		var nPoint uint64
		for isrc, src := range sources {
			if verboseLevel > 0 {
				timeNow := time.Now()
				fmt.Printf("%.1fmin - Opening %s\n", timeNow.Sub(timeStart).Minutes(), src.Path)
			}
			f, err := zopen.Open(src.Path, nWorker1)
			if err != nil {
				return err
			}

			var rawChrom, chrom string
			var known bool
			sc := wig.NewScanner(f)
			blk := &block{src: isrc, strand: src.Strand, points: make([]Point, 0, sPointLength)}
			flush := func() error {
				if len(blk.points) == 0 {
					return nil
				}
				select {
				case <-gctx.Done():
					return gctx.Err()
				case chPoint <- blk:
				}
				blk = &block{src: isrc, chrom: chrom, strand: src.Strand, points: make([]Point, 0, sPointLength)}
				return nil
			}

			// Loop over points
			for sc.Scan() {
				if sc.Chrom() != rawChrom {
					if err := flush(); err != nil {
						f.Close()
						return err
					}
					rawChrom = sc.Chrom()
					chrom = feature.MapName(rawChrom, chromsMapping)
					known = idx.HasChrom(chrom)
					blk.chrom = chrom
					if !known && !unknownChroms.Has(rawChrom) {
						unknownChroms.Add(rawChrom)
						log.Printf("Warning: chromosome %s is missing from the annotation, its signal is ignored. Make sure chromosome labels are consistent between all input files.", rawChrom)
					}
					if verboseLevel > 1 {
						timeNow := time.Now()
						fmt.Printf("%.1fmin - Chromosome %s\n", timeNow.Sub(timeStart).Minutes(), rawChrom)
					}
				}
				nPoint++
				stats.Sources[isrc].Points++
				if known {
					blk.points = append(blk.points, Point{Pos: sc.Pos(), Value: sc.Value()})
					if len(blk.points) == sPointLength {
						if err := flush(); err != nil {
							f.Close()
							return err
						}
					}
				} else {
					stats.Sources[isrc].Dropped++
				}

				if verboseLevel > 0 && nPoint%10000000 == 0 {
					timeNow := time.Now()
					fmt.Printf("%.1fmin - %s points - %.2f Mp/hr\n", timeNow.Sub(timeStart).Minutes(), feature.AddCommas(strconv.FormatUint(nPoint, 10)), (float64(nPoint)/timeNow.Sub(timeStart).Hours())/1000000.)
				}
			}
			if err := sc.Err(); err != nil {
				f.Close()
				return fmt.Errorf("%s: %w", src.Path, err)
			}
			// Send last block
			if err := flush(); err != nil {
				f.Close()
				return err
			}
			stats.Sources[isrc].Lines = sc.Line()
			if err := f.Close(); err != nil {
				return err
			}
		}
		return nil
	})

	// Init cache pool
	pool := make(chan *Cache, nWorker2*2)
	for i := 0; i < cap(pool); i++ {
		pool <- NewCache(cacheLength)
	}

	// Spawn worker goroutine(s)
	g.Go(func() error {
		defer close(chFinal)
		// Start worker(s)
		wg, wgctx := errgroup.WithContext(gctx)
		for i := 0; i < nWorker2; i++ {
			wg.Go(func() error {
				// Loop over data
				for blk := range chPoint {
					// Get cache
					c := <-pool
					c.Src = blk.src
					for _, pt := range blk.points {
						for _, e := range idx.CandidatesAt(blk.chrom, pt.Pos) {
							if pt.Pos < e.Start || pt.Pos > e.Stop {
								continue
							}
							if blk.strand != 0 && e.Strand != blk.strand {
								continue
							}
							// Increase cache size
							if len(c.Hits) <= c.LastHit {
								c.Grow()
							}
							c.Hits[c.LastHit] = Hit{Exon: e, Value: pt.Value}
							c.LastHit++
						}
					}
					if c.LastHit == 0 {
						pool <- c
					} else {
						select {
						case <-wgctx.Done():
							return wgctx.Err()
						case chFinal <- c:
						}
					}
				}
				return nil
			})
		}
		// Wait for the workers to finish
		err := wg.Wait()
		if err != nil {
			return err
		}
		return nil
	})

	// Combine hits from workers into the exon accumulators
	for c := range chFinal {
		for i := 0; i < c.LastHit; i++ {
			h := c.Hits[i]
			h.Exon.Samples = append(h.Exon.Samples, h.Value)
		}
		stats.Sources[c.Src].Matched += uint64(c.LastHit)
		// Reset
		c.LastHit = 0
		pool <- c
	}

	if err := g.Wait(); err != nil {
		return stats, err
	}

	// Totals
	for i := range stats.Sources {
		stats.Lines += stats.Sources[i].Lines
		stats.Points += stats.Sources[i].Points
		stats.Matched += stats.Sources[i].Matched
		stats.Dropped += stats.Sources[i].Dropped
	}
	stats.UnknownChroms = set.StringSlice(unknownChroms)
	sort.Strings(stats.UnknownChroms)

	return stats, nil
}
