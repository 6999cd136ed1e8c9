package records

import (
	"errors"
	"fmt"
	"log"
)

// ErrNotFound is returned by Lookup when no record matches the identifier.
var ErrNotFound = errors.New("customer not found")

// Store is the read-only customer table. A Store is either fully loaded or
// empty; an empty store answers every lookup with ErrNotFound so the rest of
// the system stays inspectable when the source failed to load.
type Store struct {
	columns []string
	records []*CustomerRecord
	byID    map[string]*CustomerRecord
	source  string
}

// NewStore builds a store from loaded records. Duplicate customer IDs are a
// source-data defect: the first occurrence wins and later ones are logged.
func NewStore(columns []string, recs []*CustomerRecord, source string) *Store {
	s := &Store{
		columns: columns,
		records: make([]*CustomerRecord, 0, len(recs)),
		byID:    make(map[string]*CustomerRecord, len(recs)),
		source:  source,
	}
	for _, rec := range recs {
		id := NormalizeID(rec.CustomerID)
		if id == "" {
			continue
		}
		if _, exists := s.byID[id]; exists {
			log.Printf("RecordStore: duplicate customer id %q in %s, keeping first", id, source)
			continue
		}
		rec.CustomerID = id
		s.byID[id] = rec
		s.records = append(s.records, rec)
	}
	return s
}

// EmptyStore returns a store with no records, used when loading failed. All
// lookups fail with ErrNotFound rather than crashing the process.
func EmptyStore(source string) *Store {
	return NewStore(nil, nil, source)
}

// Lookup returns the record whose customer ID exactly matches the normalized
// input. No fuzzy or case-insensitive matching.
func (s *Store) Lookup(customerID string) (*CustomerRecord, error) {
	id := NormalizeID(customerID)
	rec, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("lookup %q: %w", id, ErrNotFound)
	}
	return rec, nil
}

// Len returns the number of loaded records.
func (s *Store) Len() int { return len(s.records) }

// Columns returns the source column names in their original order.
func (s *Store) Columns() []string { return s.columns }

// Source describes where the records were loaded from, for diagnostics.
func (s *Store) Source() string { return s.source }
