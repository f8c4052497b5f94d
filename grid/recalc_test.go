package grid

import "testing"

func TestRecalcDiscountEdited(t *testing.T) {
	s := newTestCargoSheet(t, [][]any{savedDetailRec()})
	setCell(t, s, 0, "discount", "0.5")

	if got := cellText(t, s, 0, "price"); got != "50.00" {
		t.Errorf("price = %q, want 50.00", got)
	}
	if got := cellText(t, s, 0, "actmoney"); got != "150.00" {
		t.Errorf("actmoney = %q, want 150.00", got)
	}
	if got := cellText(t, s, 0, "dismoney"); got != "150.00" {
		t.Errorf("dismoney = %q, want 150.00", got)
	}
	if s.Rows[0].State != EditUpdated {
		t.Errorf("state = %v, want updated", s.Rows[0].State)
	}
}

func TestRecalcActMoneyEdited(t *testing.T) {
	s := newTestCargoSheet(t, [][]any{savedDetailRec()})
	setCell(t, s, 0, "actmoney", "240")

	if got := cellText(t, s, 0, "price"); got != "80.00" {
		t.Errorf("price = %q, want 80.00", got)
	}
	if got := cellText(t, s, 0, "discount"); got != "0.80" {
		t.Errorf("discount = %q, want 0.80", got)
	}
}

func TestRecalcPriceEdited(t *testing.T) {
	s := newTestCargoSheet(t, [][]any{savedDetailRec()})
	setCell(t, s, 0, "price", "25")

	if got := cellText(t, s, 0, "discount"); got != "0.25" {
		t.Errorf("discount = %q, want 0.25", got)
	}
	if got := cellText(t, s, 0, "actmoney"); got != "75.00" {
		t.Errorf("actmoney = %q, want 75.00", got)
	}
}

func TestRecalcZeroQtyZeroesMoney(t *testing.T) {
	s := newTestCargoSheet(t, [][]any{savedDetailRec()})
	lo, _ := s.sizeColRange()
	if err := s.SetCellText(0, lo, "0"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetCellText(0, lo+1, "0"); err != nil {
		t.Fatal(err)
	}
	if got := cellText(t, s, 0, "qty"); got != "0" {
		t.Errorf("qty = %q, want 0", got)
	}
	if got := cellText(t, s, 0, "actmoney"); got != "0.00" {
		t.Errorf("actmoney = %q, want 0.00", got)
	}
	if got := cellText(t, s, 0, "dismoney"); got != "0.00" {
		t.Errorf("dismoney = %q, want 0.00", got)
	}
}

func TestRecalcNegativeActMoneyNormalized(t *testing.T) {
	s := newTestCargoSheet(t, [][]any{savedDetailRec()})
	// qty is +3; a stray minus sign on the money entry must not
	// produce a negative price
	setCell(t, s, 0, "actmoney", "-240")

	if got := cellText(t, s, 0, "actmoney"); got != "240.00" {
		t.Errorf("actmoney = %q, want 240.00", got)
	}
	if got := cellText(t, s, 0, "price"); got != "80.00" {
		t.Errorf("price = %q, want 80.00", got)
	}
	if got := cellText(t, s, 0, "discount"); got != "0.80" {
		t.Errorf("discount = %q, want 0.80", got)
	}
}

func TestRecalcZeroSetPriceZeroesDiscount(t *testing.T) {
	rec := savedDetailRec()
	rec[9] = int64(0)
	s := newTestCargoSheet(t, [][]any{rec})
	setCell(t, s, 0, "price", "64")

	if got := cellText(t, s, 0, "discount"); got != "0.00" {
		t.Errorf("discount = %q, want 0.00", got)
	}
	if got := cellText(t, s, 0, "actmoney"); got != "192.00" {
		t.Errorf("actmoney = %q, want 192.00", got)
	}
}

func TestRecalcNegativeQtyFlipsMoney(t *testing.T) {
	s := newTestCargoSheet(t, [][]any{savedDetailRec()})
	lo, _ := s.sizeColRange()
	if err := s.SetCellText(0, lo, "-1"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetCellText(0, lo+1, "-2"); err != nil {
		t.Fatal(err)
	}
	if got := cellText(t, s, 0, "qty"); got != "-3" {
		t.Errorf("qty = %q, want -3", got)
	}
	if got := cellText(t, s, 0, "actmoney"); got != "-192.00" {
		t.Errorf("actmoney = %q, want -192.00", got)
	}
}
