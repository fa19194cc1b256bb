// Package objdb stores labeled feature vectors used as classification
// ground truth. The store is append-only and persisted as a
// human-diffable CSV file.
package objdb

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"objrec/internal/region"
)

// FeatureDim is the feature vector length: fillRatio, bboxRatio, and the
// seven log-scaled Hu moments.
const FeatureDim = 9

var csvHeader = []string{
	"label", "fillRatio", "bboxRatio",
	"hu0", "hu1", "hu2", "hu3", "hu4", "hu5", "hu6",
}

// Entry is one training sample: a label plus the shape features captured
// from a region.
type Entry struct {
	Label     string
	FillRatio float64
	BBoxRatio float64
	HuMoments []float64
}

// FeatureVector returns [fillRatio, bboxRatio, hu0..hu6], zero-padded to
// FeatureDim when Hu moments are missing.
func (e Entry) FeatureVector() []float64 {
	fv := make([]float64, 0, FeatureDim)
	fv = append(fv, e.FillRatio, e.BBoxRatio)
	for i := 0; i < 7 && i < len(e.HuMoments); i++ {
		fv = append(fv, e.HuMoments[i])
	}
	for len(fv) < FeatureDim {
		fv = append(fv, 0)
	}
	return fv
}

// EntryFromRegion captures a region's features as a training sample.
func EntryFromRegion(reg region.Region, label string) Entry {
	hu := make([]float64, len(reg.HuMoments))
	copy(hu, reg.HuMoments)
	return Entry{
		Label:     label,
		FillRatio: reg.FillRatio,
		BBoxRatio: reg.BBoxRatio,
		HuMoments: hu,
	}
}

// DB is an append-only collection of entries backed by a CSV file.
// Multiple samples per label are expected; the classifier needs them for
// distance scaling.
type DB struct {
	path    string
	entries []Entry
}

// Open creates a DB bound to the given file path and loads it if the
// file already exists. A missing file is not an error; it yields an
// empty database.
func Open(path string) (*DB, error) {
	db := &DB{path: path}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return db, nil
		}
		return nil, fmt.Errorf("objdb: stat %s: %w", path, err)
	}
	if err := db.Load(); err != nil {
		return nil, err
	}
	return db, nil
}

// Path returns the backing file path.
func (db *DB) Path() string { return db.path }

// Entries returns the stored entries in insertion order.
func (db *DB) Entries() []Entry { return db.entries }

// Len returns the number of stored entries.
func (db *DB) Len() int { return len(db.entries) }

// Load replaces the in-memory entries with the file contents. Malformed
// rows are skipped, not fatal; the number of loaded rows is logged.
func (db *DB) Load() error {
	f, err := os.Open(db.path)
	if err != nil {
		return fmt.Errorf("objdb: open %s: %w", db.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate ragged rows, validated below

	db.entries = db.entries[:0]
	skipped := 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}
		entry, ok := parseRow(row)
		if !ok {
			skipped++
			continue
		}
		db.entries = append(db.entries, entry)
	}

	log.Printf("objdb: loaded %d entries from %s (%d rows skipped)",
		len(db.entries), db.path, skipped)
	return nil
}

// parseRow converts one CSV row into an entry. The header row and rows
// with an unparseable label, fillRatio, or bboxRatio are rejected; a bad
// Hu moment field degrades to 0.
func parseRow(row []string) (Entry, bool) {
	if len(row) < 3 || row[0] == "" || row[0] == "label" {
		return Entry{}, false
	}

	fill, err := strconv.ParseFloat(row[1], 64)
	if err != nil {
		return Entry{}, false
	}
	bbox, err := strconv.ParseFloat(row[2], 64)
	if err != nil {
		return Entry{}, false
	}

	entry := Entry{Label: row[0], FillRatio: fill, BBoxRatio: bbox}
	for i := 3; i < len(row) && i < 3+7; i++ {
		v, err := strconv.ParseFloat(row[i], 64)
		if err != nil {
			v = 0
		}
		entry.HuMoments = append(entry.HuMoments, v)
	}
	return entry, true
}

// Save rewrites the backing file with the full in-memory contents.
func (db *DB) Save() error {
	if err := ensureDir(db.path); err != nil {
		return err
	}
	f, err := os.Create(db.path)
	if err != nil {
		return fmt.Errorf("objdb: create %s: %w", db.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("objdb: write header: %w", err)
	}
	for _, e := range db.entries {
		if err := w.Write(formatRow(e)); err != nil {
			return fmt.Errorf("objdb: write entry: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("objdb: flush %s: %w", db.path, err)
	}

	log.Printf("objdb: saved %d entries to %s", len(db.entries), db.path)
	return nil
}

// Append adds one entry to memory and to the backing file. The header is
// written only when the file does not exist yet.
func (db *DB) Append(e Entry) error {
	if err := ensureDir(db.path); err != nil {
		return err
	}

	needsHeader := false
	if _, err := os.Stat(db.path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(db.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("objdb: append to %s: %w", db.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if needsHeader {
		if err := w.Write(csvHeader); err != nil {
			return fmt.Errorf("objdb: write header: %w", err)
		}
	}
	if err := w.Write(formatRow(e)); err != nil {
		return fmt.Errorf("objdb: write entry: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("objdb: flush %s: %w", db.path, err)
	}

	db.entries = append(db.entries, e)
	return nil
}

// Add stores an entry in memory only.
func (db *DB) Add(e Entry) {
	db.entries = append(db.entries, e)
}

// EntriesForLabel returns all samples captured under one label.
func (db *DB) EntriesForLabel(label string) []Entry {
	var out []Entry
	for _, e := range db.entries {
		if e.Label == label {
			out = append(out, e)
		}
	}
	return out
}

// LabelCounts returns the number of samples per label.
func (db *DB) LabelCounts() map[string]int {
	counts := make(map[string]int)
	for _, e := range db.entries {
		counts[e.Label]++
	}
	return counts
}

// Labels returns the distinct labels, sorted.
func (db *DB) Labels() []string {
	counts := db.LabelCounts()
	labels := make([]string, 0, len(counts))
	for l := range counts {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

// DeleteLabel removes every sample with the given label and persists the
// result.
func (db *DB) DeleteLabel(label string) error {
	kept := db.entries[:0]
	for _, e := range db.entries {
		if e.Label != label {
			kept = append(kept, e)
		}
	}
	db.entries = kept
	return db.Save()
}

// Clear drops all in-memory entries. The backing file is untouched until
// the next Save.
func (db *DB) Clear() {
	db.entries = nil
}

func formatRow(e Entry) []string {
	row := make([]string, 0, len(csvHeader))
	row = append(row, e.Label,
		strconv.FormatFloat(e.FillRatio, 'g', -1, 64),
		strconv.FormatFloat(e.BBoxRatio, 'g', -1, 64))
	for i := 0; i < 7; i++ {
		v := 0.0
		if i < len(e.HuMoments) {
			v = e.HuMoments[i]
		}
		row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
	}
	return row
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("objdb: create directory %s: %w", dir, err)
	}
	return nil
}
