package grid

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// SetCellText commits an operator edit: normalize, validate, flip the
// row dirty, then run the column's side effects (prefill, recalc).
func (s *Sheet) SetCellText(rowIdx, colIdx int, text string) error {
	if s.ForQuery {
		return fmt.Errorf("query sheet is read-only")
	}
	if rowIdx < 0 || rowIdx >= len(s.Rows) || colIdx < 0 || colIdx >= len(s.Cols) {
		return fmt.Errorf("cell (%d,%d) out of range", rowIdx, colIdx)
	}
	row := s.Rows[rowIdx]
	f := s.Cols[colIdx]
	cell := row.cell(colIdx)
	if cell.Locked {
		return fmt.Errorf("cell (%d,%d) is locked", rowIdx, colIdx)
	}
	if f.Any(FlagReadOnly | FlagHideSys) {
		return fmt.Errorf("column %s is not editable", f.Name)
	}
	if f.Is(FlagKey) && row.State != EditNew {
		return fmt.Errorf("%s", msgKeyLocked)
	}

	text = s.normalizeInput(f, text)
	if text == cell.Text {
		return nil
	}
	cell.Text = text
	s.validateCell(f, cell)

	row.markDirty()
	if s.ForRegister {
		s.stampRegisterRow(row)
	}

	switch {
	case cell.Check == CheckError:
		// nothing derives from an invalid value
	case f.Is(FlagKey):
		s.commitKey(rowIdx)
	case f.Name == "color" && s.HasSizeMatrix:
		s.commitColor(rowIdx)
	case s.isSizeCol(colIdx):
		if qc := s.col("qty"); qc >= 0 {
			row.cell(qc).clearCheck()
		}
		s.RecalcRow(rowIdx, EditedOther)
	case f.Name == "price":
		s.RecalcRow(rowIdx, EditedOther)
	case f.Name == "discount":
		s.RecalcRow(rowIdx, EditedDiscount)
	case f.Name == "actmoney":
		s.RecalcRow(rowIdx, EditedActMoney)
	}

	s.applyFilters(false)
	return nil
}

// normalizeInput canonicalizes raw operator input for the field.
func (s *Sheet) normalizeInput(f *Field, text string) string {
	if f.Is(FlagNumeric) {
		text = strings.TrimSpace(text)
		formatted, ok := formatAt(text, f.Dots)
		if ok || text == "" {
			return formatted
		}
		if f.Is(FlagSizeUnit) {
			return ""
		}
		// unparsable input stays visible and earns an error in
		// validateCell
		return text
	}
	text = strings.TrimSpace(text)
	if f.Is(FlagKey) || f.Name == "color" {
		text = strings.ReplaceAll(text, "'", "’")
		text = strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, text)
		if f.Name != "subject" {
			text = strings.ToUpper(text)
		}
	}
	return text
}

// validateCell attaches the severity the new text earns on its own.
func (s *Sheet) validateCell(f *Field, cell *Cell) {
	cell.clearCheck()
	switch {
	case f.Is(FlagNumeric):
		if cell.Text == "" {
			return
		}
		if _, err := strconv.ParseFloat(cell.Text, 64); err != nil {
			cell.setCheck(CheckError, msgBadNumber)
		}
	case f.Is(FlagDate):
		if cell.Text == "" {
			return
		}
		t, err := time.ParseInLocation("2006-1-2", cell.Text, time.Local)
		if err != nil {
			cell.setCheck(CheckError, msgBadDate)
			return
		}
		cell.Text = t.Format("2006-01-02")
	case f.Is(FlagText):
		if len(cell.Text) > f.Dots {
			cell.setCheck(CheckWarning, msgTooLong)
		}
	}
}

// stampRegisterRow refreshes the audit columns on a master row.
func (s *Sheet) stampRegisterRow(row *Row) {
	if c := s.col("upman"); c >= 0 {
		row.cell(c).Text = s.opts.Operator
	}
	if c := s.col("uptime"); c >= 0 {
		row.cell(c).Text = time.Now().Format("2006-01-02")
	}
}

// commitKey dispatches the key-column side effects per sheet kind.
func (s *Sheet) commitKey(rowIdx int) {
	switch {
	case s.ForRegister:
		s.checkKeyUnique(rowIdx)
	case s.HasSizeMatrix:
		s.commitCargo(rowIdx)
	case s.regs.Subjects != nil:
		s.commitSubject(rowIdx)
	}
}

// checkKeyUnique flags a register row whose key collides with another
// live row.
func (s *Sheet) checkKeyUnique(rowIdx int) {
	kc := s.keyCol()
	row := s.Rows[rowIdx]
	key := row.cell(kc).Text
	if key == "" {
		return
	}
	for i, other := range s.Rows {
		if i == rowIdx || other.State == EditDeleted {
			continue
		}
		if other.cell(kc).Text == key {
			row.cell(kc).setCheck(CheckError, msgKeyDuplicated)
			return
		}
	}
}

// commitCargo resolves the cargo against the master and prefills the
// lookup columns, size list and price of the row.
func (s *Sheet) commitCargo(rowIdx int) {
	row := s.Rows[rowIdx]
	kc := s.keyCol()
	cargo := row.cell(kc).Text
	if cargo == "" {
		return
	}
	if !s.regs.Cargos.Exists(cargo) {
		row.cell(kc).setCheck(CheckWarning, msgCargoUnknown)
		return
	}
	if s.regs.Cargos.Value(cargo, "stopped") != "" && s.regs.Cargos.Value(cargo, "stopped") != "0" {
		row.cell(kc).setCheck(CheckWarning, msgCargoStopped)
	}
	s.prefillFromCargo(rowIdx, cargo)
}

// prefillFromCargo copies the master attributes into the row and
// readies its size cells and price.
func (s *Sheet) prefillFromCargo(rowIdx int, cargo string) {
	row := s.Rows[rowIdx]
	setText := func(name, text string) {
		if c := s.col(name); c >= 0 {
			row.cell(c).Text = text
		}
	}
	setText("hpname", s.regs.Cargos.Value(cargo, "hpname"))
	setText("unit", s.regs.Cargos.Value(cargo, "unit"))
	if c := s.col("setprice"); c >= 0 {
		row.cell(c).Text = NumForRead(scaledAttr(s.regs.Cargos, cargo, "setprice"), s.Cols[c].Dots)
	}
	if s.opts.HpMarkAttr >= 1 && s.opts.HpMarkAttr <= 6 {
		setText("hpmark", s.regs.Cargos.Value(cargo, fmt.Sprintf("attr%d", s.opts.HpMarkAttr)))
	}
	if s.opts.AutoFirstColor {
		if c := s.col("color"); c >= 0 && row.cell(c).Text == "" {
			row.cell(c).Text = s.regs.Colors.First(s.regs.Cargos.Value(cargo, "colortype"))
		}
	}
	s.readySizer(rowIdx, cargo)
	if s.HasPricingRule {
		s.readyPrice(rowIdx, "")
	}
	s.RecalcRow(rowIdx, EditedOther)
}

// commitColor checks the color against the cargo's color group. A cargo
// without a group accepts anything.
func (s *Sheet) commitColor(rowIdx int) {
	row := s.Rows[rowIdx]
	cc := s.col("color")
	kc := s.keyCol()
	if cc < 0 || kc < 0 {
		return
	}
	color := row.cell(cc).Text
	if color == "" {
		return
	}
	colorType := s.regs.Cargos.Value(row.cell(kc).Text, "colortype")
	if colorType == "" {
		return
	}
	if !s.regs.Colors.Contains(colorType, color) {
		row.cell(cc).setCheck(CheckWarning, msgColorUnknown)
	}
}

func (s *Sheet) commitSubject(rowIdx int) {
	row := s.Rows[rowIdx]
	kc := s.keyCol()
	subject := row.cell(kc).Text
	if subject == "" {
		return
	}
	if !s.regs.Subjects.Exists(subject) {
		row.cell(kc).setCheck(CheckWarning, msgSubjectUnknown)
	}
}

func scaledAttr(reg CargoRegistry, cargo, attr string) int64 {
	iv, err := strconv.ParseInt(reg.Value(cargo, attr), 10, 64)
	if err != nil {
		return 0
	}
	return iv
}
