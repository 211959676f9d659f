//
// Copyright (C) 2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package junction

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"git.sr.ht/~vejnar/ExonLedger/lib/zopen"
)

// Junction is one splice or backsplice junction with its read count.
// Start and Stop are 1-based and inclusive.
type Junction struct {
	Chrom  string
	Start  int
	Stop   int
	Strand string
	Count  int
}

// Read parses junction records: chromosome, start, stop, strand and count,
// whitespace separated, with extra fields ignored. Coordinates are 0-based
// half-open in the input and converted to 1-based inclusive. Any record with
// missing or unparsable fields fails the whole load.
func Read(r io.Reader) ([]Junction, error) {
	var junctions []Junction
	var nLine int
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		nLine++
		line := scanner.Text()
		if len(line) == 0 || line[0] == '#' || strings.HasPrefix(line, "track") || strings.HasPrefix(line, "browser") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 5 {
			return nil, fmt.Errorf("invalid junction line %d: 5 fields expected, %d found", nLine, len(fields))
		}
		start, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("invalid junction line %d: start %q", nLine, fields[1])
		}
		stop, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, fmt.Errorf("invalid junction line %d: stop %q", nLine, fields[2])
		}
		count, err := strconv.Atoi(fields[4])
		if err != nil {
			return nil, fmt.Errorf("invalid junction line %d: count %q", nLine, fields[4])
		}
		junctions = append(junctions, Junction{
			Chrom:  fields[0],
			Start:  start + 1,
			Stop:   stop + 1,
			Strand: fields[3],
			Count:  count,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return junctions, nil
}

// Open parses junction records from a file, transparently decompressing
// gzip and BGZF files.
func Open(path string, nWorker int) ([]Junction, error) {
	f, err := zopen.Open(path, nWorker)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}
