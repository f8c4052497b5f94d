package grid

import (
	"regexp"
	"strconv"
	"strings"
)

var priceFieldNames = map[string]bool{
	"setprice": true,
	"retprice": true,
	"buyprice": true,
	"lotprice": true,
}

// defaultPriceField picks the catalog price a sheet table books at.
func (s *Sheet) defaultPriceField() string {
	switch {
	case strings.HasPrefix(s.Table, "cg"):
		return "buyprice"
	case strings.HasPrefix(s.Table, "pf"), strings.HasPrefix(s.Table, "dbd"):
		return "lotprice"
	case strings.HasPrefix(s.Table, "ls"):
		return "retprice"
	default:
		return "setprice"
	}
}

// readyPrice seeds the row's unit price from the cargo master.
// priceName selects the basis: a catalog price field books at discount
// 1, a number books the default field at that discount, anything
// containing "dis" books at the trader discount, and empty falls back
// to the pricing policy table.
func (s *Sheet) readyPrice(rowIdx int, priceName string) {
	row := s.Rows[rowIdx]
	kc := s.keyCol()
	pc := s.col("price")
	if kc < 0 || pc < 0 {
		return
	}
	cargo := row.cell(kc).Text
	if !s.regs.Cargos.Exists(cargo) {
		return
	}

	field := s.defaultPriceField()
	discount := s.traderDiscount
	switch {
	case priceFieldNames[priceName]:
		field = priceName
		discount = 1
	case priceName != "":
		if v, err := strconv.ParseFloat(priceName, 64); err == nil {
			discount = v
		} else if strings.Contains(priceName, "dis") {
			discount = s.traderDiscount
		}
	default:
		discount = s.policyDiscount(cargo)
	}

	base := float64(scaledAttr(s.regs.Cargos, cargo, field)) / numScale
	s.setCellFloat(row, pc, base*discount)
	if dc := s.col("discount"); dc >= 0 {
		s.setCellFloat(row, dc, discount)
	}
}

// policyDiscount finds the highest-priority policy row matching the
// trader and cargo. Patterns are anchored and case-blind; an empty
// pattern matches everything.
func (s *Sheet) policyDiscount(cargo string) float64 {
	for _, p := range s.regs.Policies {
		if policyExpMatch(p.TraderExp, s.traderName) && policyExpMatch(p.CargoExp, cargo) {
			return p.Discount
		}
	}
	return s.traderDiscount
}

func policyExpMatch(exp, value string) bool {
	if exp == "" {
		return true
	}
	re, err := regexp.Compile("(?i)^" + exp + "$")
	if err != nil {
		return false
	}
	return re.MatchString(strings.ToUpper(value)) || re.MatchString(strings.ToLower(value))
}

// AutoBatchPrice reprices every live row from the given basis.
func (s *Sheet) AutoBatchPrice(priceName string) {
	for i, row := range s.Rows {
		if row.State == EditDeleted {
			continue
		}
		kc := s.keyCol()
		if kc < 0 || !s.regs.Cargos.Exists(row.cell(kc).Text) {
			continue
		}
		s.readyPrice(i, priceName)
		s.RecalcRow(i, EditedOther)
	}
	s.applyFilters(false)
}

// UniteCargoColorPrice merges rows booking the same cargo, color and
// price: size quantities add into the first row, the absorbed rows
// vanish (unsaved) or turn deleted (saved).
func (s *Sheet) UniteCargoColorPrice() int {
	kc := s.keyCol()
	cc := s.col("color")
	pc := s.col("price")
	if kc < 0 || pc < 0 {
		return 0
	}
	type groupKey struct{ cargo, color, price string }
	first := map[groupKey]int{}
	merged := 0
	for i := 0; i < len(s.Rows); i++ {
		row := s.Rows[i]
		if row.State == EditDeleted {
			continue
		}
		color := ""
		if cc >= 0 {
			color = row.cell(cc).Text
		}
		key := groupKey{row.cell(kc).Text, color, row.cell(pc).Text}
		if key.cargo == "" {
			continue
		}
		target, seen := first[key]
		if !seen {
			first[key] = i
			continue
		}
		lo, hi := s.sizeColRange()
		for c := lo; c < hi; c++ {
			sum := numFromText(s.Rows[target].cell(c).Text) + numFromText(row.cell(c).Text)
			if sum == 0 {
				s.Rows[target].cell(c).Text = ""
			} else {
				s.Rows[target].cell(c).Text = NumForRead(sum, s.Cols[c].Dots)
			}
		}
		s.RecalcRow(target, EditedOther)
		if row.State == EditNew {
			s.Rows = append(s.Rows[:i], s.Rows[i+1:]...)
			i--
		} else {
			row.State = EditDeleted
			if s.opts.HideDroppedRows {
				row.Hidden = true
			}
		}
		merged++
	}
	if merged > 0 {
		s.applyFilters(false)
	}
	return merged
}

// AddCalcMoneyColByPrice appends read-only columns valuing every row at
// a catalog price: calcmoney right of qty, plus buymargin when the
// basis is the buy price. Query sheets only.
func (s *Sheet) AddCalcMoneyColByPrice(priceField string) {
	if !s.ForQuery || !priceFieldNames[priceField] {
		return
	}
	qc := s.col("qty")
	kc := s.keyCol()
	if qc < 0 || kc < 0 {
		return
	}
	withMargin := priceField == "buyprice" && s.col("actmoney") >= 0

	insert := func(at int, f *Field) {
		applyDots(f, s.opts.Dots)
		s.Cols = append(s.Cols, nil)
		copy(s.Cols[at+1:], s.Cols[at:])
		s.Cols[at] = f
		for _, row := range s.Rows {
			row.Cells = append(row.Cells, Cell{})
			copy(row.Cells[at+1:], row.Cells[at:])
			row.Cells[at] = Cell{}
		}
	}
	insert(qc+1, NewField("calcmoney", s.opts.Dots))
	if withMargin {
		insert(qc+2, NewField("buymargin", s.opts.Dots))
	}

	cmc := qc + 1
	for _, row := range s.Rows {
		cargo := row.cell(s.keyCol()).Text
		price := float64(scaledAttr(s.regs.Cargos, cargo, priceField)) / numScale
		qty := float64(numFromText(row.cell(s.col("qty")).Text)) / numScale
		calc := price * qty
		s.setCellFloat(row, cmc, calc)
		if withMargin {
			act := float64(numFromText(row.cell(s.col("actmoney")).Text)) / numScale
			s.setCellFloat(row, cmc+1, act-calc)
		}
	}
	s.applyFilters(false)
}
