//
// Copyright (C) 2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package feature

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pierrec/lz4"
)

type GenericWriter interface {
	Write(buf []byte) (n int, err error)
	Close() error
}

// WriteCoverageCSV writes coverage rows to path. Format is "csv", or
// "csv+lz4" and "csv+lz4hc" for LZ4-compressed output.
func WriteCoverageCSV(rows []CoverageRow, path string, format string) error {
	var zip string
	if strings.Contains(format, "+") {
		doubleFormat := strings.Split(format, "+")
		format, zip = doubleFormat[0], doubleFormat[1]
	}
	if format != "csv" {
		return fmt.Errorf("unknown counts format %q", format)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	var writer GenericWriter
	switch zip {
	case "lz4":
		writer = lz4.NewWriter(f)
	case "lz4hc":
		lzWriter := lz4.NewWriter(f)
		lzWriter.Header = lz4.Header{CompressionLevel: 9}
		writer = lzWriter
	case "":
		writer = f
	default:
		f.Close()
		return fmt.Errorf("unknown counts compression %q", zip)
	}
	// Write header
	io.WriteString(writer, "\"gene\",\"transcript\",\"exon\",\"coverage\",\"chromosome\",\"start\",\"stop\",\"strand\"\n")
	// Write rows
	for _, row := range rows {
		fmt.Fprintf(writer, "\"%s\",\"%s\",%d,%s,\"%s\",%d,%d,\"%s\"\n",
			row.Gene, row.Transcript, row.Exon,
			strconv.FormatFloat(row.Coverage, 'f', -1, 64),
			row.Chrom, row.Start, row.Stop, row.Strand)
	}
	if cerr := writer.Close(); cerr != nil {
		f.Close()
		return cerr
	}
	if zip != "" {
		return f.Close()
	}
	return nil
}
