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
	"fmt"
	"os"
	"strings"
)

// OpenMapping parses a two column tabulated file mapping chromosome names of
// the signal to chromosome names of the annotation.
func OpenMapping(mpath string) (map[string]string, error) {
	m := make(map[string]string)

	mfos, err := os.Open(mpath)
	if err != nil {
		return m, err
	}
	defer mfos.Close()

	var nLine int
	tscanner := bufio.NewScanner(mfos)
	for tscanner.Scan() {
		nLine++
		line := tscanner.Text()
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			return m, fmt.Errorf("invalid mapping line %d: %q", nLine, line)
		}
		m[fields[0]] = fields[1]
	}
	if err := tscanner.Err(); err != nil {
		return m, err
	}
	return m, nil
}

// MapName maps name using m, returning name itself when unmapped.
func MapName(name string, m map[string]string) string {
	if nn, ok := m[name]; ok {
		return nn
	}
	return name
}
