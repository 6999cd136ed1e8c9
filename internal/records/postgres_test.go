package records

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestLoadPostgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{"Customer ID", "Tenure", "Payment Method"}).
		AddRow("E00789", "5", "Electronic check").
		AddRow(" E00790 ", "12", "Mailed check").
		AddRow(nil, "3", "Credit card")

	mock.ExpectQuery(`SELECT \* FROM "customers"`).WillReturnRows(rows)

	store, err := LoadPostgres(context.Background(), db, "customers")
	if err != nil {
		t.Fatalf("LoadPostgres: %v", err)
	}

	if store.Len() != 2 {
		t.Fatalf("Len = %d, want 2 (null id skipped)", store.Len())
	}

	rec, err := store.Lookup("E00790")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	tenure, _ := rec.Attr("Tenure")
	if tenure.Kind != AttrNumber || tenure.Num != 12 {
		t.Errorf("Tenure = %+v", tenure)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestLoadPostgresNoIDColumn(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT \* FROM "customers"`).
		WillReturnRows(sqlmock.NewRows([]string{"name", "tenure"}).AddRow("a", "1"))

	if _, err := LoadPostgres(context.Background(), db, "customers"); err == nil {
		t.Fatal("expected error for missing Customer ID column")
	}
}

func TestLoadPostgresRejectsBadTableName(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	for _, table := range []string{"", "customers; DROP TABLE x", `a"b`} {
		if _, err := LoadPostgres(context.Background(), db, table); err == nil {
			t.Errorf("table %q accepted", table)
		}
	}
}
