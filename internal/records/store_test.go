package records

import (
	"errors"
	"testing"
)

func testRecord(id string, attrs map[string]Attr) *CustomerRecord {
	if attrs == nil {
		attrs = map[string]Attr{}
	}
	attrs[IDColumn] = StringAttr(id)
	return &CustomerRecord{CustomerID: id, Attributes: attrs}
}

func TestStoreLookup(t *testing.T) {
	store := NewStore([]string{IDColumn, "Tenure"}, []*CustomerRecord{
		testRecord("E00789", map[string]Attr{"Tenure": NumberAttr(5)}),
		testRecord("E00790", nil),
	}, "test")

	rec, err := store.Lookup("E00789")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if rec.CustomerID != "E00789" {
		t.Errorf("got %q", rec.CustomerID)
	}

	// Whitespace is normalized on the way in
	if _, err := store.Lookup("  E00790  "); err != nil {
		t.Errorf("trimmed lookup failed: %v", err)
	}

	// Exact match only, no case folding
	if _, err := store.Lookup("e00789"); !errors.Is(err, ErrNotFound) {
		t.Errorf("case-insensitive match should not succeed, got %v", err)
	}

	if _, err := store.Lookup("does-not-exist"); !errors.Is(err, ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
}

func TestEmptyStore(t *testing.T) {
	store := EmptyStore("csv")
	if store.Len() != 0 {
		t.Fatalf("Len = %d", store.Len())
	}
	if _, err := store.Lookup("anything"); !errors.Is(err, ErrNotFound) {
		t.Errorf("empty store lookup: want ErrNotFound, got %v", err)
	}
}

func TestStoreDuplicateIDs(t *testing.T) {
	store := NewStore([]string{IDColumn, "Tenure"}, []*CustomerRecord{
		testRecord("E1", map[string]Attr{"Tenure": NumberAttr(1)}),
		testRecord("E1", map[string]Attr{"Tenure": NumberAttr(99)}),
	}, "test")

	if store.Len() != 1 {
		t.Fatalf("Len = %d, want 1", store.Len())
	}
	rec, _ := store.Lookup("E1")
	tenure, _ := rec.Attr("Tenure")
	if tenure.Num != 1 {
		t.Errorf("first record should win, got tenure %v", tenure.Num)
	}
}

func TestRecordAttrCaseVariants(t *testing.T) {
	rec := testRecord("E1", map[string]Attr{"Gender": StringAttr("Female")})

	if _, ok := rec.Attr("Gender"); !ok {
		t.Error("exact name lookup failed")
	}
	if attr, ok := rec.Attr("gender"); !ok || attr.Str != "Female" {
		t.Errorf("case-variant lookup failed: %+v %v", attr, ok)
	}
	if _, ok := rec.Attr("missing"); ok {
		t.Error("absent attribute reported present")
	}
}
