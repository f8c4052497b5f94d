package grid

import (
	"strings"
	"testing"
)

func twoRowRecs() [][]any {
	rec2 := savedDetailRec()
	rec2[2] = "蓝"
	rec2[3] = "L\t40000"
	rec2[4] = int64(40000)
	rec2[7] = int64(2560000)
	rec2[12] = int64(1700000100000)
	return [][]any{savedDetailRec(), rec2}
}

func TestLoadBuildsColumns(t *testing.T) {
	s := newTestCargoSheet(t, twoRowRecs())
	if got := len(s.Rows); got != 2 {
		t.Fatalf("rows = %d", got)
	}
	if s.Cols[s.col("cargo")].Title != "货号" {
		t.Errorf("cargo title = %q", s.Cols[s.col("cargo")].Title)
	}
	if got := cellText(t, s, 0, "price"); got != "64.00" {
		t.Errorf("price = %q", got)
	}
	if got := cellText(t, s, 0, "rowtime"); !strings.HasPrefix(got, "2023-11-1") {
		t.Errorf("rowtime = %q", got)
	}
	for i := range s.Rows {
		if s.Rows[i].State != EditClean {
			t.Errorf("row %d state = %v", i, s.Rows[i].State)
		}
	}
}

func TestFooterAggregates(t *testing.T) {
	s := newTestCargoSheet(t, twoRowRecs())
	if got := s.Cols[s.col("qty")].FooterText(); got != "7" {
		t.Errorf("qty sum = %q, want 7", got)
	}
	if got := s.Cols[s.col("cargo")].FooterText(); got != "1" {
		t.Errorf("cargo count = %q, want 1", got)
	}
	if got := s.Cols[s.col("color")].FooterText(); got != "2" {
		t.Errorf("color count = %q, want 2", got)
	}
	if got := s.Cols[s.col("actmoney")].FooterText(); got != "448.00" {
		t.Errorf("actmoney sum = %q, want 448.00", got)
	}
}

func TestFilterEqualHidesAndReaggregates(t *testing.T) {
	s := newTestCargoSheet(t, twoRowRecs())
	fired := []bool{}
	s.OnFilterState = func(active bool) { fired = append(fired, active) }

	s.FilterEqual(s.col("color"), "红")
	if s.VisibleRows() != 1 {
		t.Fatalf("visible = %d, want 1", s.VisibleRows())
	}
	if s.Rows[1].Hidden != true {
		t.Error("blue row should hide")
	}
	if got := s.Cols[s.col("qty")].FooterText(); got != "3" {
		t.Errorf("qty sum = %q, want 3", got)
	}
	if len(fired) != 1 || fired[0] != true {
		t.Errorf("filter state signals = %v", fired)
	}

	s.ClearAllFilters()
	if s.VisibleRows() != 2 {
		t.Errorf("visible = %d after clear", s.VisibleRows())
	}
	if len(fired) != 2 || fired[1] != false {
		t.Errorf("filter state signals = %v", fired)
	}
}

func TestFilterOutAccumulates(t *testing.T) {
	s := newTestCargoSheet(t, twoRowRecs())
	s.FilterOut(s.col("color"), "红")
	s.FilterOut(s.col("color"), "蓝")
	if s.VisibleRows() != 0 {
		t.Errorf("visible = %d, want 0", s.VisibleRows())
	}
}

func TestFilterContainUsesSearchKey(t *testing.T) {
	s, err := NewCargoSheet("lsd", testOptions(), testRegistries(), nil)
	if err != nil {
		t.Fatal(err)
	}
	s.SearchKeyFunc = strings.ToUpper
	if err := s.Load(detailCols, twoRowRecs()); err != nil {
		t.Fatal(err)
	}
	s.FilterContain(s.col("cargo"), "a001")
	if s.VisibleRows() != 2 {
		t.Errorf("visible = %d, want 2", s.VisibleRows())
	}
	s.FilterContain(s.col("cargo"), "z9")
	if s.VisibleRows() != 0 {
		t.Errorf("visible = %d, want 0", s.VisibleRows())
	}
}

func TestContainSearchIsNotAnActiveFilter(t *testing.T) {
	s, err := NewCargoSheet("lsd", testOptions(), testRegistries(), nil)
	if err != nil {
		t.Fatal(err)
	}
	s.SearchKeyFunc = strings.ToUpper
	if err := s.Load(detailCols, twoRowRecs()); err != nil {
		t.Fatal(err)
	}
	fired := 0
	s.OnFilterState = func(bool) { fired++ }

	s.FilterContain(s.col("cargo"), "z9")
	if s.VisibleRows() != 0 {
		t.Fatalf("visible = %d, want 0", s.VisibleRows())
	}
	if s.Filtering() {
		t.Error("contains search must not mark filtering active")
	}
	if fired != 0 {
		t.Errorf("filter state fired %d times", fired)
	}

	s.FilterEqual(s.col("color"), "红")
	if !s.Filtering() {
		t.Error("equal filter should mark filtering active")
	}
}

func TestDeletedRowLeavesAggregates(t *testing.T) {
	s := newTestCargoSheet(t, twoRowRecs())
	if err := s.DeleteOrRestoreRow(1); err != nil {
		t.Fatal(err)
	}
	if s.Rows[1].State != EditDeleted {
		t.Fatalf("state = %v", s.Rows[1].State)
	}
	if got := s.Cols[s.col("qty")].FooterText(); got != "3" {
		t.Errorf("qty sum = %q, want 3", got)
	}
	if err := s.DeleteOrRestoreRow(1); err != nil {
		t.Fatal(err)
	}
	if s.Rows[1].State != EditClean {
		t.Errorf("state after restore = %v", s.Rows[1].State)
	}
}

func TestCommitCargoPrefills(t *testing.T) {
	s := newTestCargoSheet(t, nil)
	ri, err := s.AppendRow()
	if err != nil {
		t.Fatal(err)
	}
	setCell(t, s, ri, "cargo", "a001")

	if got := cellText(t, s, ri, "cargo"); got != "A001" {
		t.Errorf("cargo = %q, want A001", got)
	}
	if got := cellText(t, s, ri, "hpname"); got != "连衣裙" {
		t.Errorf("hpname = %q", got)
	}
	if got := cellText(t, s, ri, "setprice"); got != "100.00" {
		t.Errorf("setprice = %q", got)
	}
	if got := cellText(t, s, ri, "unit"); got != "件" {
		t.Errorf("unit = %q", got)
	}
	// trader discount 0.75 on the retail basis
	if got := cellText(t, s, ri, "price"); got != "60.00" {
		t.Errorf("price = %q, want 60.00", got)
	}
	lo, hi := s.sizeColRange()
	if hi-lo != 3 {
		t.Errorf("size cols = %d", hi-lo)
	}
	if tip := s.Rows[ri].cell(lo + 1).Tip; tip != "M" {
		t.Errorf("tip = %q", tip)
	}
}

func TestCommitUnknownCargoWarns(t *testing.T) {
	s := newTestCargoSheet(t, nil)
	ri, _ := s.AppendRow()
	setCell(t, s, ri, "cargo", "Z999")
	cell := s.Rows[ri].cell(s.keyCol())
	if cell.Check != CheckWarning {
		t.Errorf("check = %v, want warning", cell.Check)
	}
}

func TestCommitColorChecked(t *testing.T) {
	s := newTestCargoSheet(t, nil)
	ri, _ := s.AppendRow()
	setCell(t, s, ri, "cargo", "A001")
	setCell(t, s, ri, "color", "紫")
	if got := s.Rows[ri].cell(s.col("color")).Check; got != CheckWarning {
		t.Errorf("check = %v, want warning", got)
	}
	setCell(t, s, ri, "color", "红")
	if got := s.Rows[ri].cell(s.col("color")).Check; got != CheckNone {
		t.Errorf("check = %v, want none", got)
	}
}

func TestBadNumericInputMarksError(t *testing.T) {
	s := newTestCargoSheet(t, [][]any{savedDetailRec()})
	pc := s.col("price")
	if err := s.SetCellText(0, pc, "abc"); err != nil {
		t.Fatal(err)
	}
	cell := s.Rows[0].cell(pc)
	if cell.Text != "abc" {
		t.Errorf("text = %q, want the raw input kept", cell.Text)
	}
	if cell.Check != CheckError {
		t.Fatalf("check = %v, want error", cell.Check)
	}
	// nothing derives from the invalid value
	if got := cellText(t, s, 0, "actmoney"); got != "192.00" {
		t.Errorf("actmoney = %q, want 192.00", got)
	}
	if s.SaveCheck() != CheckError {
		t.Error("save should be blocked")
	}

	setCell(t, s, 0, "price", "50")
	if cell.Check != CheckNone {
		t.Errorf("check after valid entry = %v", cell.Check)
	}
	if got := cellText(t, s, 0, "actmoney"); got != "150.00" {
		t.Errorf("actmoney = %q, want 150.00", got)
	}
}

func TestKeyLockedOnSavedRow(t *testing.T) {
	s := newTestCargoSheet(t, [][]any{savedDetailRec()})
	if err := s.SetCellText(0, s.keyCol(), "B002"); err == nil {
		t.Fatal("editing a saved key should fail")
	}
}

func TestMoveRowSwapsRowtime(t *testing.T) {
	s := newTestCargoSheet(t, twoRowRecs())
	t0 := cellText(t, s, 0, "rowtime")
	t1 := cellText(t, s, 1, "rowtime")

	if err := s.MoveRow(1, -1); err != nil {
		t.Fatal(err)
	}
	if got := cellText(t, s, 0, "color"); got != "蓝" {
		t.Fatalf("row 0 color = %q, want 蓝", got)
	}
	// rowtime stays with the position so the new order persists
	if got := cellText(t, s, 0, "rowtime"); got != t0 {
		t.Errorf("row 0 rowtime = %q, want %q", got, t0)
	}
	if got := cellText(t, s, 1, "rowtime"); got != t1 {
		t.Errorf("row 1 rowtime = %q, want %q", got, t1)
	}
	for i := 0; i < 2; i++ {
		if s.Rows[i].State != EditUpdated {
			t.Errorf("row %d state = %v, want updated", i, s.Rows[i].State)
		}
	}

	if err := s.MoveRow(0, -1); err == nil {
		t.Fatal("moving the first row up should fail")
	}
}

func TestQuerySheetRejectsEdits(t *testing.T) {
	s := NewQuerySheet(testOptions(), testRegistries())
	if err := s.Load(detailCols, [][]any{savedDetailRec()}); err != nil {
		t.Fatal(err)
	}
	if err := s.SetCellText(0, 0, "X"); err == nil {
		t.Fatal("query sheet must be read-only")
	}
	if _, err := s.AppendRow(); err == nil {
		t.Fatal("query sheet must not append")
	}
}
