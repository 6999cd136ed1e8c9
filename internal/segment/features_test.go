package segment

import (
	"testing"

	"github.com/ignite/payment-assist/internal/records"
)

func labeledRecord() *records.CustomerRecord {
	return &records.CustomerRecord{
		CustomerID: "E00789",
		Attributes: map[string]records.Attr{
			"Customer ID":     records.StringAttr("E00789"),
			"Tenure":          records.NumberAttr(5),
			"Monthly Charges": records.NumberAttr(70.5),
			"Payment Method":  records.StringAttr("Electronic check"),
			"segment":         records.StringAttr("occasional_defaulter"),
			"segment_encoded": records.NumberAttr(2),
		},
	}
}

func TestProjectDropsIdentifierAndLabels(t *testing.T) {
	columns := []string{"Customer ID", "Tenure", "Monthly Charges", "Payment Method", "segment", "segment_encoded"}
	p := NewProjector(columns)

	fv := p.Project(labeledRecord())

	want := []string{"Tenure", "Monthly Charges", "Payment Method"}
	if len(fv.Columns) != len(want) {
		t.Fatalf("columns = %v, want %v", fv.Columns, want)
	}
	for i, col := range want {
		if fv.Columns[i] != col {
			t.Errorf("column[%d] = %q, want %q (order must match source)", i, fv.Columns[i], col)
		}
	}
	for _, dropped := range []string{"Customer ID", "segment", "segment_encoded"} {
		if _, ok := fv.Values[dropped]; ok {
			t.Errorf("%q should have been dropped", dropped)
		}
	}
}

func TestProjectWithoutLabelColumns(t *testing.T) {
	// Same projector against an unlabeled source: silent no-op on the
	// missing label columns.
	rec := &records.CustomerRecord{
		CustomerID: "E1",
		Attributes: map[string]records.Attr{
			"Customer ID": records.StringAttr("E1"),
			"Tenure":      records.NumberAttr(9),
		},
	}
	p := NewProjector([]string{"Customer ID", "Tenure"})

	fv := p.Project(rec)
	if len(fv.Columns) != 1 || fv.Columns[0] != "Tenure" {
		t.Errorf("columns = %v, want [Tenure]", fv.Columns)
	}
}

func TestProjectNoColumnOrder(t *testing.T) {
	// A degraded store has no column order; the projector still drops the
	// identifier and label columns.
	p := NewProjector(nil)
	fv := p.Project(labeledRecord())

	if len(fv.Columns) != 3 {
		t.Errorf("columns = %v, want 3 feature columns", fv.Columns)
	}
	if _, ok := fv.Values["segment"]; ok {
		t.Error("label column survived projection")
	}
}
