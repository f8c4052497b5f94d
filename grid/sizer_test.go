package grid

import (
	"errors"
	"strings"
	"testing"
)

func TestLoadSpreadsSizeCells(t *testing.T) {
	s := newTestCargoSheet(t, [][]any{savedDetailRec()})
	lo, hi := s.sizeColRange()
	if hi-lo != 3 {
		t.Fatalf("size cols = %d, want 3", hi-lo)
	}
	row := s.Rows[0]
	if got := row.cell(lo).Text; got != "1" {
		t.Errorf("S cell = %q, want 1", got)
	}
	if got := row.cell(lo + 1).Text; got != "2" {
		t.Errorf("M cell = %q, want 2", got)
	}
	if got := row.cell(lo + 2).Text; got != "" {
		t.Errorf("L cell = %q, want blank", got)
	}
	if tip := row.cell(lo + 2).Tip; tip != "L" {
		t.Errorf("L tip = %q", tip)
	}
}

func TestLoadLeftoverSizeMarksQtyError(t *testing.T) {
	rec := savedDetailRec()
	rec[3] = "S\t10000\nXXL\t20000"
	s := newTestCargoSheet(t, [][]any{rec})
	qc := s.col("qty")
	cell := s.Rows[0].cell(qc)
	if cell.Check != CheckError {
		t.Fatalf("qty check = %v, want error", cell.Check)
	}
	if !strings.Contains(cell.Hint, "XXL") {
		t.Errorf("hint %q misses the stray size", cell.Hint)
	}
}

func TestLoadBadSizerPairFails(t *testing.T) {
	rec := savedDetailRec()
	rec[3] = "S\t10000\nM"
	s, err := NewCargoSheet("lsd", testOptions(), testRegistries(), nil)
	if err != nil {
		t.Fatal(err)
	}
	err = s.Load(detailCols, [][]any{rec})
	var se *StructuralError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want StructuralError", err)
	}
}

func TestUpdateSizersBlobRoundTrip(t *testing.T) {
	s := newTestCargoSheet(t, [][]any{savedDetailRec()})
	lo, _ := s.sizeColRange()
	if err := s.SetCellText(0, lo+2, "5"); err != nil {
		t.Fatal(err)
	}
	blob := cellText(t, s, 0, "sizers")
	want := "S\t10000\nM\t20000\nL\t50000"
	if blob != want {
		t.Errorf("blob = %q, want %q", blob, want)
	}
}

func TestSizerTextSum(t *testing.T) {
	// records: S1 M2, then S0.5, then a negated S0.2 M2
	blob := "S\t10000\nM\t20000" + sizerRecordSep + "S\t5000" + sizerRecordSep + sizerNegMark + "S\t2000\nM\t20000"
	got, err := sizerTextSum(blob)
	if err != nil {
		t.Fatal(err)
	}
	want := "S\t13000"
	if got != want {
		t.Errorf("sum = %q, want %q", got, want)
	}
}

func TestSizerTextSumEmptyRecord(t *testing.T) {
	_, err := sizerTextSum("S\t10000" + sizerRecordSep + sizerNegMark)
	var se *StructuralError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want StructuralError", err)
	}
}

func TestZeroSizeCols(t *testing.T) {
	s := newTestCargoSheet(t, [][]any{savedDetailRec()})
	lo, _ := s.sizeColRange()
	zero := s.ZeroSizeCols()
	if len(zero) != 1 || zero[0] != lo+2 {
		t.Errorf("zero cols = %v, want [%d]", zero, lo+2)
	}
}
