// Package records holds the in-memory customer attribute table that the
// segmentation pipeline reads from. The table is loaded once at startup from
// a tabular source (CSV file, S3 object, or Postgres table) and is immutable
// afterwards, so it is safe for unlimited concurrent readers.
package records

import (
	"fmt"
	"strconv"
	"strings"
)

// AttrKind discriminates the value type carried by an Attr.
type AttrKind int

const (
	AttrString AttrKind = iota
	AttrNumber
	AttrBool
)

// Attr is a single customer attribute value. Attributes keep their source
// type (string, numeric, boolean) so the feature encoder and the template
// context can each render them appropriately.
type Attr struct {
	Kind AttrKind
	Str  string
	Num  float64
	Bool bool
}

// StringAttr wraps a string value.
func StringAttr(s string) Attr { return Attr{Kind: AttrString, Str: s} }

// NumberAttr wraps a numeric value.
func NumberAttr(f float64) Attr { return Attr{Kind: AttrNumber, Num: f} }

// BoolAttr wraps a boolean value.
func BoolAttr(b bool) Attr { return Attr{Kind: AttrBool, Bool: b} }

// ParseAttr converts a raw cell value into a typed Attr. Numbers and strict
// booleans are detected; everything else stays a string. Values like "Yes"
// and "No" are intentionally left as strings because the classifier treats
// them as categorical levels.
func ParseAttr(raw string) Attr {
	trimmed := strings.TrimSpace(raw)
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return NumberAttr(f)
	}
	switch strings.ToLower(trimmed) {
	case "true":
		return BoolAttr(true)
	case "false":
		return BoolAttr(false)
	}
	return StringAttr(trimmed)
}

// String renders the attribute the way it should appear in generated text.
func (a Attr) String() string {
	switch a.Kind {
	case AttrNumber:
		return strconv.FormatFloat(a.Num, 'f', -1, 64)
	case AttrBool:
		return strconv.FormatBool(a.Bool)
	default:
		return a.Str
	}
}

// Float returns the attribute as a float64 and whether the conversion is
// meaningful for its kind.
func (a Attr) Float() (float64, bool) {
	switch a.Kind {
	case AttrNumber:
		return a.Num, true
	case AttrBool:
		if a.Bool {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// Empty reports whether the attribute carries no usable value.
func (a Attr) Empty() bool {
	return a.Kind == AttrString && strings.TrimSpace(a.Str) == ""
}

// CustomerRecord is one row of the customer table: a normalized identifier
// plus the full attribute set, including any label columns present in the
// source. Column order from the source is preserved on the owning Store.
type CustomerRecord struct {
	CustomerID string
	Attributes map[string]Attr
}

// Attr looks up an attribute by name. The exact name is tried first, then a
// case-insensitive scan, because source files are inconsistent about header
// casing ("gender" vs "Gender").
func (r *CustomerRecord) Attr(name string) (Attr, bool) {
	if a, ok := r.Attributes[name]; ok {
		return a, true
	}
	for k, a := range r.Attributes {
		if strings.EqualFold(k, name) {
			return a, true
		}
	}
	return Attr{}, false
}

// NormalizeID trims whitespace and guarantees string typing for identifiers
// that arrive numeric-looking from spreadsheets ("789.0" style floats are
// left alone; only whitespace is stripped).
func NormalizeID(raw string) string {
	return strings.TrimSpace(raw)
}

func (r *CustomerRecord) String() string {
	return fmt.Sprintf("CustomerRecord(%s, %d attributes)", r.CustomerID, len(r.Attributes))
}
