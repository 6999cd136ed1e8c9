package records

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// IDColumn is the canonical identifier column in the customer source.
const IDColumn = "Customer ID"

// ReadRecords parses a CSV stream into customer records. Column names are
// whitespace-trimmed and the identifier column is normalized to string form.
// Rows without a usable identifier are skipped and counted as errors.
func ReadRecords(r io.Reader) ([]string, []*CustomerRecord, error) {
	reader := csv.NewReader(stripBOM(r))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	columns := make([]string, len(header))
	idIdx := -1
	for i, col := range header {
		columns[i] = strings.TrimSpace(col)
		if strings.EqualFold(columns[i], IDColumn) {
			idIdx = i
		}
	}
	if idIdx < 0 {
		return nil, nil, fmt.Errorf("no %q column in header: %v", IDColumn, columns)
	}

	var recs []*CustomerRecord
	skipped := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}
		if idIdx >= len(row) || NormalizeID(row[idIdx]) == "" {
			skipped++
			continue
		}

		rec := &CustomerRecord{
			CustomerID: NormalizeID(row[idIdx]),
			Attributes: make(map[string]Attr, len(columns)),
		}
		for i, col := range columns {
			if i >= len(row) {
				break
			}
			if i == idIdx {
				rec.Attributes[col] = StringAttr(rec.CustomerID)
				continue
			}
			rec.Attributes[col] = ParseAttr(row[i])
		}
		recs = append(recs, rec)
	}

	if skipped > 0 {
		log.Printf("RecordStore: skipped %d unreadable rows", skipped)
	}
	return columns, recs, nil
}

// LoadCSV loads the customer table from a local CSV file.
func LoadCSV(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	columns, recs, err := ReadRecords(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	store := NewStore(columns, recs, path)
	log.Printf("RecordStore: loaded %d records from %s", store.Len(), path)
	return store, nil
}

// stripBOM removes a UTF-8 byte order mark if present. Excel exports
// routinely carry one and it corrupts the first column name.
func stripBOM(r io.Reader) io.Reader {
	buf := make([]byte, 3)
	n, err := r.Read(buf)
	if err != nil || n < 3 {
		return io.MultiReader(strings.NewReader(string(buf[:n])), r)
	}
	if buf[0] == 0xEF && buf[1] == 0xBB && buf[2] == 0xBF {
		return r
	}
	return io.MultiReader(strings.NewReader(string(buf[:n])), r)
}
