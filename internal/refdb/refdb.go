// Package refdb loads the reference database of catalog entries the matcher
// searches against.
//
// The database is a JSON file listing one entry per catalog item, carrying a
// canonical name, an optional category tag, and either a perceptual hash
// string or a path to a reference image. It is loaded once at startup,
// injected into the scanners that need it, and never mutated afterwards, so
// a single database is safe to share across scans.
package refdb

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/corona10/goimagehash"
	"gocv.io/x/gocv"
)

// Entry is one catalog item.
type Entry struct {
	// Name is the canonical item name. Match results are drawn only from
	// these names.
	Name string

	// Category is the card background category; empty for hash-only entries.
	Category string

	// ForSale marks items purchasable in game; entries default to true.
	ForSale bool

	// Image is the normalized reference image; nil for hash-backed entries.
	Image *gocv.Mat

	// Hash is the reference perceptual hash (hash-backed entries only).
	Hash *goimagehash.ExtImageHash
}

// Database is an immutable collection of entries, optionally partitioned by
// category.
type Database struct {
	entries    []*Entry
	byCategory map[string][]*Entry
}

// LoadOptions configures reference image handling and category merging.
type LoadOptions struct {
	// ImageDir resolves relative reference image paths.
	ImageDir string

	// ImageTrimY trims this many pixel rows from the top and bottom of every
	// reference image, removing card chrome that never appears in tiles.
	ImageTrimY int

	// Merge lists groups of visually-confusable categories. Every category
	// in a group shares one combined candidate list, so a tile classified as
	// either may match entries stored under the other.
	Merge [][]string
}

// fileEntry is the JSON wire form of one entry.
type fileEntry struct {
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	Hash     string `json:"hash,omitempty"`
	Image    string `json:"image,omitempty"`
	ForSale  *bool  `json:"forSale,omitempty"`
}

// Load reads the database file and resolves every entry's reference data.
func Load(path string, opts LoadOptions) (*Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read database %s: %w", path, err)
	}

	var raw []fileEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse database %s: %w", path, err)
	}

	db := &Database{byCategory: make(map[string][]*Entry)}
	for _, fe := range raw {
		entry, err := resolve(fe, opts)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("entry %q: %w", fe.Name, err)
		}
		db.add(entry)
	}

	db.merge(opts.Merge)
	return db, nil
}

// New builds a database directly from entries. Used by tests and by callers
// that construct reference data programmatically.
func New(entries []*Entry, merge [][]string) *Database {
	db := &Database{byCategory: make(map[string][]*Entry)}
	for _, e := range entries {
		db.add(e)
	}
	db.merge(merge)
	return db
}

func resolve(fe fileEntry, opts LoadOptions) (*Entry, error) {
	if fe.Name == "" {
		return nil, fmt.Errorf("missing name")
	}
	entry := &Entry{
		Name:     fe.Name,
		Category: fe.Category,
		ForSale:  fe.ForSale == nil || *fe.ForSale,
	}

	switch {
	case fe.Hash != "":
		hash, err := goimagehash.ExtImageHashFromString(fe.Hash)
		if err != nil {
			return nil, fmt.Errorf("parse hash: %w", err)
		}
		entry.Hash = hash

	case fe.Image != "":
		path := fe.Image
		if !filepath.IsAbs(path) {
			path = filepath.Join(opts.ImageDir, path)
		}
		img := gocv.IMRead(path, gocv.IMReadColor)
		if img.Empty() {
			return nil, fmt.Errorf("read reference image %s", path)
		}
		if opts.ImageTrimY > 0 {
			trimmed := img.RowRange(opts.ImageTrimY, img.Rows()-opts.ImageTrimY)
			keep := trimmed.Clone()
			trimmed.Close()
			img.Close()
			img = keep
		}
		entry.Image = &img

	default:
		return nil, fmt.Errorf("entry carries neither hash nor image")
	}
	return entry, nil
}

func (d *Database) add(e *Entry) {
	d.entries = append(d.entries, e)
	if e.Category != "" {
		d.byCategory[e.Category] = append(d.byCategory[e.Category], e)
	}
}

// merge replaces each category in a group with the group's combined list.
func (d *Database) merge(groups [][]string) {
	for _, group := range groups {
		var combined []*Entry
		for _, cat := range group {
			combined = append(combined, d.byCategory[cat]...)
		}
		for _, cat := range group {
			d.byCategory[cat] = combined
		}
	}
}

// Entries returns all entries in file order.
func (d *Database) Entries() []*Entry {
	return d.entries
}

// Category returns the (possibly merged) candidate list for a category.
func (d *Database) Category(name string) []*Entry {
	return d.byCategory[name]
}

// Len returns the number of entries.
func (d *Database) Len() int {
	return len(d.entries)
}

// Close releases all loaded reference images.
func (d *Database) Close() {
	for _, e := range d.entries {
		if e.Image != nil {
			e.Image.Close()
		}
	}
}

// Categories returns the category names present, for diagnostics.
func (d *Database) Categories() []string {
	names := make([]string, 0, len(d.byCategory))
	for name := range d.byCategory {
		names = append(names, name)
	}
	return names
}

// String returns a debug summary.
func (d *Database) String() string {
	return fmt.Sprintf("Database<%d entries, categories: %s>",
		len(d.entries), strings.Join(d.Categories(), ","))
}
