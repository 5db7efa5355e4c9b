package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultDocument []byte

// TestRecord is a single diagnostic test on the price list.
type TestRecord struct {
	Name        string   `yaml:"name"`
	Price       int      `yaml:"price"`
	Description string   `yaml:"description"`
	Category    Category `yaml:"category"`
}

// Store is the ordered, read-only price list. It is safe for concurrent use.
type Store struct {
	records []TestRecord
	byName  map[string]int
}

var (
	// ErrEmptyCatalog is returned when a document lists no tests.
	ErrEmptyCatalog = errors.New("catalog: no tests defined")
	// ErrDuplicateName is returned when two records share a name.
	ErrDuplicateName = errors.New("catalog: duplicate test name")
)

type document struct {
	Tests []TestRecord `yaml:"tests"`
}

// Default returns the compiled-in price list.
func Default() *Store {
	s, err := Parse(defaultDocument)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded price list invalid: %v", err))
	}
	return s
}

// Parse decodes a YAML price list.
func Parse(raw []byte) (*Store, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	return New(doc.Tests)
}

// New validates records and builds a store preserving their order.
func New(records []TestRecord) (*Store, error) {
	if len(records) == 0 {
		return nil, ErrEmptyCatalog
	}
	s := &Store{
		records: make([]TestRecord, 0, len(records)),
		byName:  make(map[string]int, len(records)),
	}
	for i, rec := range records {
		rec.Name = strings.TrimSpace(rec.Name)
		if rec.Name == "" {
			return nil, fmt.Errorf("catalog: record %d has no name", i)
		}
		if rec.Price < 0 {
			return nil, fmt.Errorf("catalog: %s has negative price %d", rec.Name, rec.Price)
		}
		if !rec.Category.Valid() {
			return nil, fmt.Errorf("catalog: %s has no category", rec.Name)
		}
		if _, dup := s.byName[rec.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, rec.Name)
		}
		s.byName[rec.Name] = len(s.records)
		s.records = append(s.records, rec)
	}
	return s, nil
}

// All returns a copy of every record in catalog order.
func (s *Store) All() []TestRecord {
	out := make([]TestRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of records.
func (s *Store) Len() int { return len(s.records) }

// Find looks a record up by exact name.
func (s *Store) Find(name string) (TestRecord, bool) {
	i, ok := s.byName[name]
	if !ok {
		return TestRecord{}, false
	}
	return s.records[i], true
}

// Select returns the records matching f in catalog order.
func (s *Store) Select(f Filter) []TestRecord {
	out := make([]TestRecord, 0, len(s.records))
	for _, rec := range s.records {
		if f.Matches(rec.Category) {
			out = append(out, rec)
		}
	}
	return out
}
