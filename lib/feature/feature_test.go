//
// Copyright (C) 2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package feature

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestParseStrand(t *testing.T) {
	c := qt.New(t)
	tests := []struct {
		raw    string
		strand int8
	}{
		{"+", 1},
		{"+1", 1},
		{"1", 1},
		{"-", -1},
		{"-1", -1},
		{".", 0},
		{"", 0},
	}
	for _, tt := range tests {
		c.Assert(ParseStrand(tt.raw), qt.Equals, tt.strand, qt.Commentf("strand %q", tt.raw))
	}
}

func TestFormatStrand(t *testing.T) {
	c := qt.New(t)
	c.Assert(FormatStrand(1), qt.Equals, "+")
	c.Assert(FormatStrand(-1), qt.Equals, "-")
	c.Assert(FormatStrand(0), qt.Equals, ".")
}

func TestAddCommas(t *testing.T) {
	c := qt.New(t)
	c.Assert(AddCommas("421"), qt.Equals, "421")
	c.Assert(AddCommas("1234"), qt.Equals, "1,234")
	c.Assert(AddCommas("1234567"), qt.Equals, "1,234,567")
}
