//
// Copyright (C) 2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package covdb

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	_ "modernc.org/sqlite"

	"git.sr.ht/~vejnar/ExonLedger/lib/feature"
	"git.sr.ht/~vejnar/ExonLedger/lib/junction"
)

// ErrOutputExists is returned when the output database path already exists.
var ErrOutputExists = errors.New("output database already exists")

// DB is the output SQLite database.
type DB struct {
	db *sql.DB
}

// validTable reports whether name is usable as a SQL table identifier:
// letters, digits and underscores, not starting with a digit.
func validTable(name string) bool {
	if len(name) == 0 {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// Create creates the database at path with the coverage table and one
// junction table per requested name. Create fails if path already exists or
// is not writable, so a bad destination is reported before any input is
// parsed.
func Create(path string, junctionTables []string) (*DB, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("%s: %w", path, ErrOutputExists)
	} else if !os.IsNotExist(err) {
		return nil, err
	}
	for _, table := range junctionTables {
		if !validTable(table) {
			return nil, fmt.Errorf("invalid table name %q", table)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if _, err = db.Exec("CREATE TABLE coverage (gene text, transcript text, exon int, coverage real, chromosome text, start int, stop int, strand text)"); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating table coverage: %w", err)
	}
	for _, table := range junctionTables {
		if _, err = db.Exec(fmt.Sprintf("CREATE TABLE %s (chromosome text, start int, stop int, strand text, counts int)", table)); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating table %s: %w", table, err)
		}
	}
	return &DB{db: db}, nil
}

// InsertCoverage inserts coverage rows into the coverage table in a single
// transaction.
func (d *DB) InsertCoverage(rows []feature.CoverageRow) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare("INSERT INTO coverage VALUES (?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return err
	}
	for _, row := range rows {
		if _, err = stmt.Exec(row.Gene, row.Transcript, row.Exon, row.Coverage, row.Chrom, row.Start, row.Stop, row.Strand); err != nil {
			stmt.Close()
			tx.Rollback()
			return err
		}
	}
	stmt.Close()
	return tx.Commit()
}

// InsertJunctions inserts junctions into table in a single transaction.
func (d *DB) InsertJunctions(table string, junctions []junction.Junction) error {
	if !validTable(table) {
		return fmt.Errorf("invalid table name %q", table)
	}
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(fmt.Sprintf("INSERT INTO %s VALUES (?, ?, ?, ?, ?)", table))
	if err != nil {
		tx.Rollback()
		return err
	}
	for _, j := range junctions {
		if _, err = stmt.Exec(j.Chrom, j.Start, j.Stop, j.Strand, j.Count); err != nil {
			stmt.Close()
			tx.Rollback()
			return err
		}
	}
	stmt.Close()
	return tx.Commit()
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}
