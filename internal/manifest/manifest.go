// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package manifest persists a per-output-directory record of converted
// notes, so batch re-runs can skip notes whose content is unchanged.
package manifest

import (
	"crypto/md5"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/enexmark/pkg/types"
)

// dbFile is the manifest database name inside the output directory.
const dbFile = ".enexmark.db"

// Store is the sqlite-backed conversion manifest.
type Store struct {
	db *sql.DB
}

// Open opens or creates the manifest database inside outputDir.
func Open(outputDir string) (*Store, error) {
	path := filepath.Join(outputDir, dbFile)
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening manifest: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating manifest schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS notes (
		title        TEXT PRIMARY KEY,
		digest       TEXT NOT NULL,
		output_file  TEXT NOT NULL,
		converted_at TEXT NOT NULL
	)`)
	return err
}

// Unchanged reports whether the note with this title was already converted
// with the same digest.
func (s *Store) Unchanged(title, digest string) bool {
	var stored string
	err := s.db.QueryRow(`SELECT digest FROM notes WHERE title = ?`, title).Scan(&stored)
	return err == nil && stored == digest
}

// Record upserts the conversion record for a note.
func (s *Store) Record(title, digest, outputFile string) error {
	_, err := s.db.Exec(`INSERT INTO notes (title, digest, output_file, converted_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(title) DO UPDATE SET
			digest = excluded.digest,
			output_file = excluded.output_file,
			converted_at = excluded.converted_at`,
		title, digest, outputFile, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("recording %q: %w", title, err)
	}
	return nil
}

// Digest fingerprints a note's convertible content: title, body, and the
// set of resource hashes. Equal digests mean re-conversion would reproduce
// the same output.
func Digest(note *types.Note) string {
	h := md5.New()
	io.WriteString(h, note.Title)
	io.WriteString(h, "\x00")
	io.WriteString(h, note.Body)
	for _, r := range note.Resources {
		io.WriteString(h, "\x00")
		io.WriteString(h, r.Hash)
	}
	return hex.EncodeToString(h.Sum(nil))
}
