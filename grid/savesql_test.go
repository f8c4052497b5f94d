package grid

import (
	"strings"
	"testing"
)

func TestSaveSQLInsertNewRow(t *testing.T) {
	s := newTestCargoSheet(t, nil)
	if _, err := s.Scan("A001012", 1); err != nil {
		t.Fatal(err)
	}
	stmts := s.SaveSQL()
	if len(stmts) != 1 {
		t.Fatalf("stmts = %v", stmts)
	}
	ins := stmts[0]
	if !strings.HasPrefix(ins, "INSERT INTO lsddtl (parentid,cargo,color,sizers,qty,price,discount,actmoney,dismoney,hpmark,rowtime) VALUES ("+ParentIDPlaceholder+",") {
		t.Errorf("insert = %q", ins)
	}
	if !strings.Contains(ins, "'A001'") || !strings.Contains(ins, "'红'") {
		t.Errorf("insert = %q", ins)
	}
	// one M piece at the trader price 60.00
	if !strings.Contains(ins, "'M\t10000'") || !strings.Contains(ins, "600000") {
		t.Errorf("insert = %q", ins)
	}
	// lookup columns stay out
	if strings.Contains(ins, "hpname") || strings.Contains(ins, "setprice") || strings.Contains(ins, "unit") {
		t.Errorf("insert leaks lookup columns: %q", ins)
	}
}

func TestSaveSQLUpdateOnlyChangedCells(t *testing.T) {
	s := newTestCargoSheet(t, [][]any{savedDetailRec()})
	s.SetSheetID(77)
	setCell(t, s, 0, "price", "25")
	stmts := s.SaveSQL()
	if len(stmts) != 1 {
		t.Fatalf("stmts = %v", stmts)
	}
	want := "UPDATE lsddtl SET price=250000,discount=2500,actmoney=750000,dismoney=2250000 WHERE parentid=77 AND rowtime=1700000000000"
	if stmts[0] != want {
		t.Errorf("update = %q\nwant %q", stmts[0], want)
	}
}

func TestSaveSQLUntouchedRowNoStatement(t *testing.T) {
	s := newTestCargoSheet(t, [][]any{savedDetailRec()})
	if got := s.SaveSQL(); len(got) != 0 {
		t.Errorf("stmts = %v, want none", got)
	}
	if s.NeedSave() {
		t.Error("clean sheet should not need save")
	}
}

func TestSaveSQLDeleteUsesOldKeys(t *testing.T) {
	s := newTestCargoSheet(t, [][]any{savedDetailRec()})
	s.SetSheetID(77)
	if err := s.DeleteOrRestoreRow(0); err != nil {
		t.Fatal(err)
	}
	stmts := s.SaveSQL()
	want := "DELETE FROM lsddtl WHERE parentid=77 AND rowtime=1700000000000"
	if len(stmts) != 1 || stmts[0] != want {
		t.Errorf("stmts = %v, want [%q]", stmts, want)
	}
}

func TestSaveSQLTrailingEmptyRowDropped(t *testing.T) {
	s := newTestCargoSheet(t, [][]any{savedDetailRec()})
	if _, err := s.AppendRow(); err != nil {
		t.Fatal(err)
	}
	if s.NeedSave() {
		t.Error("untouched appended row should not count")
	}
	if got := s.SaveSQL(); len(got) != 0 {
		t.Errorf("stmts = %v", got)
	}
}

func TestSaveSQLEscapesText(t *testing.T) {
	s := newTestCargoSheet(t, [][]any{savedDetailRec()})
	setCell(t, s, 0, "hpmark", "o'clock")
	stmts := s.SaveSQL()
	if len(stmts) != 1 || !strings.Contains(stmts[0], "hpmark='o’clock'") {
		t.Errorf("stmts = %v", stmts)
	}
}

func TestSaveCheckSeverity(t *testing.T) {
	s := newTestCargoSheet(t, [][]any{savedDetailRec()})
	if got := s.SaveCheck(); got != CheckNone {
		t.Fatalf("check = %v", got)
	}
	ri, _ := s.AppendRow()
	setCell(t, s, ri, "cargo", "Z999")
	if got := s.SaveCheck(); got != CheckWarning {
		t.Errorf("check = %v, want warning", got)
	}
	// an error on a deleted row does not block
	rec := savedDetailRec()
	rec[3] = "S\t10000\nXXL\t20000"
	s2 := newTestCargoSheet(t, [][]any{rec})
	if got := s2.SaveCheck(); got != CheckError {
		t.Errorf("check = %v, want error", got)
	}
	if err := s2.DeleteOrRestoreRow(0); err != nil {
		t.Fatal(err)
	}
	if got := s2.SaveCheck(); got != CheckNone {
		t.Errorf("check after delete = %v, want none", got)
	}
}

func TestSavedReconcile(t *testing.T) {
	s := newTestCargoSheet(t, twoRowRecs())
	s.SetSheetID(77)
	setCell(t, s, 0, "price", "30")
	if err := s.DeleteOrRestoreRow(1); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Scan("A001022", 1); err != nil {
		t.Fatal(err)
	}

	s.SavedReconcile()
	if len(s.Rows) != 2 {
		t.Fatalf("rows = %d", len(s.Rows))
	}
	for i, row := range s.Rows {
		if row.State != EditClean {
			t.Errorf("row %d state = %v", i, row.State)
		}
	}
	pc := s.col("price")
	if s.Rows[0].cell(pc).OldValue != "30.00" {
		t.Errorf("old value = %q, want 30.00", s.Rows[0].cell(pc).OldValue)
	}
	if s.NeedSave() {
		t.Error("reconciled sheet should be clean")
	}
}

func TestCancelRestore(t *testing.T) {
	s := newTestCargoSheet(t, [][]any{savedDetailRec()})
	setCell(t, s, 0, "price", "25")
	lo, _ := s.sizeColRange()
	if err := s.SetCellText(0, lo, "9"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Scan("A001022", 1); err != nil {
		t.Fatal(err)
	}

	if err := s.CancelRestore(); err != nil {
		t.Fatal(err)
	}
	if len(s.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(s.Rows))
	}
	if got := cellText(t, s, 0, "price"); got != "64.00" {
		t.Errorf("price = %q, want 64.00", got)
	}
	if got := s.Rows[0].cell(lo).Text; got != "1" {
		t.Errorf("S cell = %q, want 1", got)
	}
	if s.Rows[0].State != EditClean {
		t.Errorf("state = %v", s.Rows[0].State)
	}
}

func TestRegisterSaveSQL(t *testing.T) {
	cols := []string{"hpcode", "hpname", "colortype", "sizertype", "setprice",
		"buyprice", "retprice", "lotprice", "unit", "regdis", "stopped", "upman", "uptime"}
	rec := []any{"A001", "连衣裙", "C1", "S1", int64(1000000), int64(500000),
		int64(800000), int64(600000), "件", int64(10000), int64(0), "tester", int64(1700000000)}

	s := NewRegisterSheet("cargo", testOptions(), testRegistries())
	if err := s.Load(cols, [][]any{rec}); err != nil {
		t.Fatal(err)
	}

	ri, err := s.AppendRow()
	if err != nil {
		t.Fatal(err)
	}
	setCell(t, s, ri, "hpcode", "n100")
	setCell(t, s, ri, "hpname", "新品衬衫")
	setCell(t, s, ri, "setprice", "120")

	setCell(t, s, 0, "retprice", "88")

	stmts := s.SaveSQL()
	if len(stmts) != 2 {
		t.Fatalf("stmts = %v", stmts)
	}
	ins, upd := stmts[0], stmts[1]
	if !strings.HasPrefix(ins, "INSERT INTO cargo (") ||
		!strings.Contains(ins, "'N100'") || !strings.Contains(ins, "1200000") {
		t.Errorf("insert = %q", ins)
	}
	// regdis seeded at 1.00
	if !strings.Contains(ins, "10000") {
		t.Errorf("insert = %q", ins)
	}
	if !strings.Contains(upd, "UPDATE cargo SET ") ||
		!strings.Contains(upd, "retprice=880000") ||
		!strings.HasSuffix(upd, "WHERE hpcode='A001'") {
		t.Errorf("update = %q", upd)
	}
}

func TestRegisterKeyUnique(t *testing.T) {
	cols := []string{"hpcode", "hpname", "setprice", "upman", "uptime"}
	rec := []any{"A001", "连衣裙", int64(1000000), "tester", int64(1700000000)}
	s := NewRegisterSheet("cargo", testOptions(), testRegistries())
	if err := s.Load(cols, [][]any{rec}); err != nil {
		t.Fatal(err)
	}
	ri, _ := s.AppendRow()
	setCell(t, s, ri, "hpcode", "A001")
	if got := s.Rows[ri].cell(s.keyCol()).Check; got != CheckError {
		t.Errorf("check = %v, want error", got)
	}
	if got := s.SaveCheck(); got != CheckError {
		t.Errorf("save check = %v, want error", got)
	}
}
