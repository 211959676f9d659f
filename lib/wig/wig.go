//
// Copyright (C) 2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package wig

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Scanner reads signal points from a wiggle file in variableStep format.
// Lines starting with v declare the chromosome of the following points, any
// other line is one point: a position and a value, whitespace separated.
type Scanner struct {
	s     *bufio.Scanner
	chrom string
	pos   int
	value float64
	nLine int
	err   error
}

func NewScanner(r io.Reader) *Scanner {
	return &Scanner{s: bufio.NewScanner(r)}
}

func parseDeclaration(line string) (string, error) {
	fields := strings.Fields(line)
	for _, field := range fields[1:] {
		keyValue := strings.SplitN(field, "=", 2)
		if len(keyValue) == 2 && keyValue[0] == "chrom" {
			return keyValue[1], nil
		}
	}
	return "", errors.New("declaration line is missing the chromosome name")
}

// Scan advances to the next data point. Declaration lines are consumed
// internally, the current chromosome is available from Chrom. Scan returns
// false at the end of the input or on the first malformed line.
func (sc *Scanner) Scan() bool {
	if sc.err != nil {
		return false
	}
	for sc.s.Scan() {
		sc.nLine++
		line := sc.s.Text()
		if len(line) == 0 {
			continue
		}
		if line[0] == 'v' {
			chrom, err := parseDeclaration(line)
			if err != nil {
				sc.err = fmt.Errorf("signal line %d: %w", sc.nLine, err)
				return false
			}
			sc.chrom = chrom
			continue
		}
		if sc.chrom == "" {
			sc.err = fmt.Errorf("signal line %d: data before chromosome declaration", sc.nLine)
			return false
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			sc.err = fmt.Errorf("signal line %d: invalid data line %q", sc.nLine, line)
			return false
		}
		pos, err := strconv.Atoi(fields[0])
		if err != nil {
			sc.err = fmt.Errorf("signal line %d: invalid position %q", sc.nLine, fields[0])
			return false
		}
		value, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			sc.err = fmt.Errorf("signal line %d: invalid value %q", sc.nLine, fields[1])
			return false
		}
		sc.pos = pos
		sc.value = value
		return true
	}
	sc.err = sc.s.Err()
	return false
}

// Chrom returns the chromosome of the last scanned point.
func (sc *Scanner) Chrom() string {
	return sc.chrom
}

// Pos returns the position of the last scanned point.
func (sc *Scanner) Pos() int {
	return sc.pos
}

// Value returns the value of the last scanned point.
func (sc *Scanner) Value() float64 {
	return sc.value
}

// Line returns the number of lines read so far, declarations included.
func (sc *Scanner) Line() int {
	return sc.nLine
}

// Err returns the first error encountered by the Scanner.
func (sc *Scanner) Err() error {
	return sc.err
}
