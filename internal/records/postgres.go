package records

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
)

// LoadPostgres pulls the full customer table from Postgres into memory with a
// single SELECT. The table is expected to carry a "Customer ID" column (any
// casing) plus the feature columns used at classifier training time.
//
// The driver (lib/pq) is registered by the caller; this function only needs
// an open *sql.DB.
func LoadPostgres(ctx context.Context, db *sql.DB, table string) (*Store, error) {
	if !validTableName(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	rows, err := db.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM %q`, table))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	rawCols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	columns := make([]string, len(rawCols))
	idIdx := -1
	for i, col := range rawCols {
		columns[i] = strings.TrimSpace(col)
		if strings.EqualFold(columns[i], IDColumn) {
			idIdx = i
		}
	}
	if idIdx < 0 {
		return nil, fmt.Errorf("no %q column in table %s: %v", IDColumn, table, columns)
	}

	var recs []*CustomerRecord
	for rows.Next() {
		values := make([]sql.NullString, len(columns))
		dests := make([]interface{}, len(columns))
		for i := range values {
			dests[i] = &values[i]
		}
		if err := rows.Scan(dests...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		id := NormalizeID(values[idIdx].String)
		if id == "" {
			continue
		}
		rec := &CustomerRecord{
			CustomerID: id,
			Attributes: make(map[string]Attr, len(columns)),
		}
		for i, col := range columns {
			if i == idIdx {
				rec.Attributes[col] = StringAttr(id)
				continue
			}
			if !values[i].Valid {
				rec.Attributes[col] = StringAttr("")
				continue
			}
			rec.Attributes[col] = ParseAttr(values[i].String)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	store := NewStore(columns, recs, "postgres:"+table)
	log.Printf("RecordStore: loaded %d records from table %s", store.Len(), table)
	return store, nil
}

// validTableName restricts the configured table name to identifier characters
// since it is interpolated into the query.
func validTableName(table string) bool {
	if table == "" {
		return false
	}
	for _, r := range table {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '.':
		default:
			return false
		}
	}
	return true
}
