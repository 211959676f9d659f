//
// Copyright (C) 2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package zopen

import (
	"io"
	"os"
	"strings"

	"github.com/biogo/hts/bgzf"
	"github.com/klauspost/compress/gzip"
)

// Reader reads from a file, transparently decompressing it.
type Reader struct {
	io.Reader
	f *os.File
	z io.Closer
}

// Close closes the decompressor, if any, then the underlying file.
func (r *Reader) Close() error {
	if r.z != nil {
		if err := r.z.Close(); err != nil {
			r.f.Close()
			return err
		}
	}
	return r.f.Close()
}

// Open opens path for reading. Files ending in .gz or .bgz are decompressed:
// BGZF files (detected by their EOF magic block) with nWorker decompression
// worker(s), standard gzip files otherwise.
func Open(path string, nWorker int) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".gz") || strings.HasSuffix(path, ".bgz") {
		isBgzf, err := bgzf.HasEOF(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		if isBgzf {
			z, err := bgzf.NewReader(f, nWorker)
			if err != nil {
				f.Close()
				return nil, err
			}
			return &Reader{Reader: z, f: f, z: z}, nil
		}
		z, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &Reader{Reader: z, f: f, z: z}, nil
	}
	return &Reader{Reader: f, f: f}, nil
}
