// Package segment wraps the trained payment-behavior classifier: feature
// projection from raw customer records, native evaluation of the exported
// model artifact, and the label codec that maps class codes to segment names.
package segment

import (
	"strings"

	"github.com/ignite/payment-assist/internal/records"
)

// FeatureVector is a customer record minus the identifier and any label
// columns, in source column order. Vectorization into the numeric layout the
// model was trained on happens inside the model, which owns that schema.
type FeatureVector struct {
	Columns []string
	Values  map[string]records.Attr
}

// labelColumns are ground-truth columns that must never reach the
// classifier. They are dropped when present; sources without labels pass
// through untouched, so the same projector runs against labeled and
// unlabeled data.
var labelColumns = []string{"segment", "segment_encoded"}

// Projector derives the classifier's input from a raw customer record.
type Projector struct {
	columns []string // source column order
}

// NewProjector builds a projector for the given source column order.
func NewProjector(columns []string) *Projector {
	return &Projector{columns: columns}
}

// Project removes the identifier and label columns from a record. Pure and
// total: it never fails, even when the dropped columns are absent.
func (p *Projector) Project(rec *records.CustomerRecord) FeatureVector {
	fv := FeatureVector{
		Values: make(map[string]records.Attr, len(rec.Attributes)),
	}

	appendCol := func(col string, attr records.Attr) {
		if isDroppedColumn(col) {
			return
		}
		fv.Columns = append(fv.Columns, col)
		fv.Values[col] = attr
	}

	if len(p.columns) > 0 {
		for _, col := range p.columns {
			if attr, ok := rec.Attributes[col]; ok {
				appendCol(col, attr)
			}
		}
		return fv
	}

	// No source column order known (degraded store); fall back to the
	// record's own attribute set.
	for col, attr := range rec.Attributes {
		appendCol(col, attr)
	}
	return fv
}

func isDroppedColumn(col string) bool {
	if strings.EqualFold(col, records.IDColumn) {
		return true
	}
	for _, label := range labelColumns {
		if strings.EqualFold(col, label) {
			return true
		}
	}
	return false
}
