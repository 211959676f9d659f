//
// Copyright (C) 2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package feature

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"
	"unicode"

	"git.sr.ht/~vejnar/ExonLedger/lib/zopen"
)

// ErrNoFeatures is returned when an annotation source yields no usable exon.
var ErrNoFeatures = errors.New("no usable exon in annotation")

// splitAttributes splits a GTF attribute string into key and value tokens.
// Quotes around values are removed; spaces and semicolons within quoted
// values are preserved.
func splitAttributes(attrs string) []string {
	q := false
	f := func(r rune) bool {
		if r == '"' {
			q = !q
		}
		return r == '"' || ((unicode.IsSpace(r) || r == ';') && !q)
	}
	return strings.FieldsFunc(attrs, f)
}

func parseExon(fields []string) (*Exon, error) {
	start, err := strconv.Atoi(fields[3])
	if err != nil {
		return nil, fmt.Errorf("invalid start %q", fields[3])
	}
	stop, err := strconv.Atoi(fields[4])
	if err != nil {
		return nil, fmt.Errorf("invalid stop %q", fields[4])
	}
	if start > stop {
		return nil, fmt.Errorf("start %d after stop %d", start, stop)
	}
	var gene, geneID, transcript, exonRaw string
	attrs := splitAttributes(fields[8])
	for i := 0; i+1 < len(attrs); i += 2 {
		switch attrs[i] {
		case "gene_name":
			gene = attrs[i+1]
		case "gene_id":
			geneID = attrs[i+1]
		case "transcript_id":
			transcript = attrs[i+1]
		case "exon_number":
			exonRaw = attrs[i+1]
		}
	}
	if gene == "" {
		gene = geneID
	}
	if gene == "" {
		return nil, errors.New("missing gene_name and gene_id attributes")
	}
	if transcript == "" {
		return nil, errors.New("missing transcript_id attribute")
	}
	if exonRaw == "" {
		return nil, errors.New("missing exon_number attribute")
	}
	number, err := strconv.Atoi(exonRaw)
	if err != nil {
		return nil, fmt.Errorf("invalid exon_number %q", exonRaw)
	}
	return &Exon{
		Transcript: transcript,
		Number:     number,
		Chrom:      fields[0],
		Start:      start,
		Stop:       stop,
		Strand:     ParseStrand(fields[6]),
		Gene:       gene,
	}, nil
}

// ReadGTF parses exon records from a GTF annotation. Records of other
// feature types are ignored. Malformed records are logged, counted and
// skipped. Records sharing the same transcript and exon number replace each
// other, the last one wins.
func ReadGTF(r io.Reader, timeStart time.Time, verboseLevel int) (exons []*Exon, nMalformed int, err error) {
	index := make(map[string]int)
	var nLine int
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		nLine++
		if verboseLevel > 0 && nLine%100000 == 0 {
			timeNow := time.Now()
			fmt.Printf("%.1fmin - %s annotation lines\n", timeNow.Sub(timeStart).Minutes(), AddCommas(strconv.Itoa(nLine)))
		}
		line := scanner.Text()
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 9 {
			log.Printf("Warning: skipping annotation line %d: %d column(s)", nLine, len(fields))
			nMalformed++
			continue
		}
		if fields[2] != "exon" {
			continue
		}
		e, perr := parseExon(fields)
		if perr != nil {
			log.Printf("Warning: skipping annotation line %d: %v", nLine, perr)
			nMalformed++
			continue
		}
		if i, ok := index[e.ID()]; ok {
			exons[i] = e
		} else {
			index[e.ID()] = len(exons)
			exons = append(exons, e)
		}
	}
	if err = scanner.Err(); err != nil {
		return exons, nMalformed, err
	}
	if len(exons) == 0 {
		return exons, nMalformed, ErrNoFeatures
	}
	return exons, nMalformed, nil
}

// OpenGTF parses exon records from a GTF annotation file, transparently
// decompressing gzip and BGZF files.
func OpenGTF(path string, nWorker int, timeStart time.Time, verboseLevel int) ([]*Exon, int, error) {
	f, err := zopen.Open(path, nWorker)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	return ReadGTF(f, timeStart, verboseLevel)
}
