package database

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"tally/model"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { mockDB.Close() })
	return sqlx.NewDb(mockDB, "sqlite3"), mock
}

func TestFetchSheetDetailJoinsCargoMaster(t *testing.T) {
	db, mock := newMockDB(t)

	// hpname/setprice/unit live on the cargo master, not the detail
	// rows, so the fetch must join them in.
	mock.ExpectQuery(`(?s)SELECT d\.cargo, c\.hpname,.+FROM lsddtl d\s+LEFT JOIN cargo c ON c\.hpcode = d\.cargo`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{
			"cargo", "hpname", "color", "sizers", "qty", "price", "discount",
			"actmoney", "dismoney", "setprice", "unit", "hpmark", "rowtime",
		}).AddRow("A001", "连衣裙", "红", "S\t10000", int64(10000), int64(640000),
			int64(6400), int64(640000), int64(360000), int64(1000000), "件", "",
			int64(1700000000000)))

	cols, recs, err := FetchSheetDetail(db, "lsd", 7)
	if err != nil {
		t.Fatalf("FetchSheetDetail: %v", err)
	}
	if cols[1] != "hpname" || cols[9] != "setprice" || cols[10] != "unit" {
		t.Errorf("cols = %v", cols)
	}
	if len(recs) != 1 || recs[0][1] != "连衣裙" {
		t.Errorf("recs = %v", recs)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestExecSheetSaveNewSheet(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(sheetid), 0) + 1 FROM lsd")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
	mock.ExpectExec("INSERT INTO lsd ").
		WithArgs(int64(42), "张记批发", int64(7500), "", "门店A", "", int64(30000),
			int64(1920000), "tester", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO lsddtl (parentid,cargo) VALUES (42,'A001')")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	header := model.SheetHeader{
		Trader: "张记批发", TraderDis: 7500, Staff: "门店A",
		SumQty: 30000, SumMoney: 1920000, UpMan: "tester",
	}
	detail := []string{"INSERT INTO lsddtl (parentid,cargo) VALUES ({parentid},'A001')"}

	id, err := ExecSheetSave(db, "lsd", header, detail)
	if err != nil {
		t.Fatalf("ExecSheetSave: %v", err)
	}
	if id != 42 {
		t.Errorf("id = %d, want 42", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestExecSheetSaveExistingSheet(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE lsd SET ").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE lsddtl SET price=250000 WHERE parentid=77")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	header := model.SheetHeader{SheetID: 77, Trader: "张记批发"}
	detail := []string{"UPDATE lsddtl SET price=250000 WHERE parentid=77 AND rowtime=1700000000000"}

	if _, err := ExecSheetSave(db, "lsd", header, detail); err != nil {
		t.Fatalf("ExecSheetSave: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestExecSheetSaveRollsBackOnFailure(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE lsd SET ").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM lsddtl ").
		WillReturnError(errBoom{})
	mock.ExpectRollback()

	header := model.SheetHeader{SheetID: 5}
	if _, err := ExecSheetSave(db, "lsd", header, []string{"DELETE FROM lsddtl WHERE parentid=5"}); err == nil {
		t.Fatal("want error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestExecSheetSaveRejectsUnknownTable(t *testing.T) {
	db, _ := newMockDB(t)
	if _, err := ExecSheetSave(db, "users; DROP TABLE cargo", model.SheetHeader{}, nil); err == nil {
		t.Fatal("want error")
	}
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }
