package grid

import (
	"fmt"
	"regexp"
)

// BarcodeRule is one configured barcode layout. Rules apply in order;
// the first whose pattern matches the whole code wins. Capture groups
// mean cargo[,color[,sizer]] unless SizerBeforeColor swaps the trailing
// two.
type BarcodeRule struct {
	Pattern          string `json:"pattern"`
	SizerBeforeColor bool   `json:"sizerBeforeColor"`
}

type barcodeRule struct {
	re               *regexp.Regexp
	sizerBeforeColor bool
}

func compileRules(rules []BarcodeRule) ([]barcodeRule, error) {
	compiled := make([]barcodeRule, 0, len(rules))
	for _, r := range rules {
		pat := r.Pattern
		if pat == "" {
			continue
		}
		re, err := regexp.Compile("^" + pat + "$")
		if err != nil {
			return nil, fmt.Errorf("barcode pattern %q: %w", r.Pattern, err)
		}
		compiled = append(compiled, barcodeRule{re: re, sizerBeforeColor: r.SizerBeforeColor})
	}
	return compiled, nil
}

// ResolveBarcode splits a scanned code into cargo, color code and size
// code by the configured rules.
func (s *Sheet) ResolveBarcode(code string) (cargo, colorCode, sizerCode string, ok bool) {
	for _, r := range s.rules {
		m := r.re.FindStringSubmatch(code)
		if m == nil {
			continue
		}
		switch len(m) - 1 {
		case 3:
			if r.sizerBeforeColor {
				return m[1], m[3], m[2], true
			}
			return m[1], m[2], m[3], true
		case 2:
			if r.sizerBeforeColor {
				return m[1], "", m[2], true
			}
			return m[1], m[2], "", true
		case 1:
			return m[1], "", "", true
		}
	}
	return "", "", "", false
}

// Scan books one scanned piece (delta -1 un-books it) and returns the
// row it landed in.
func (s *Sheet) Scan(barcode string, delta int) (int, error) {
	cargo, colorCode, sizerCode, ok := s.ResolveBarcode(barcode)
	if !ok {
		return -1, fmt.Errorf("%s: %s", msgBarcodeNoMatch, barcode)
	}
	return s.InputCargoRow(cargo, colorCode, sizerCode, delta, true)
}

// InputCargoRow books delta pieces of a (cargo, color, size) onto the
// first visible matching row, appending a prefilled row when none
// exists. scan mode resolves color/size by code, manual mode by name.
func (s *Sheet) InputCargoRow(cargo, colorIn, sizerIn string, delta int, scan bool) (int, error) {
	if s.ForQuery || !s.HasSizeMatrix {
		return -1, fmt.Errorf("sheet takes no cargo input")
	}
	if !s.regs.Cargos.Exists(cargo) {
		return -1, fmt.Errorf("%s: %s", msgCargoUnknown, cargo)
	}

	colorName := colorIn
	colorType := s.regs.Cargos.Value(cargo, "colortype")
	if colorType != "" {
		if scan {
			name, ok := s.regs.Colors.NameByCode(colorType, colorIn)
			if !ok {
				return -1, fmt.Errorf("%s: %s", msgColorUnknown, colorIn)
			}
			colorName = name
		} else {
			if colorName == "" && s.opts.AutoFirstColor {
				colorName = s.regs.Colors.First(colorType)
			}
			if colorName != "" && !s.regs.Colors.Contains(colorType, colorName) {
				return -1, fmt.Errorf("%s: %s", msgColorUnknown, colorName)
			}
		}
	}

	sizerIdx := 0
	sizerType := s.regs.Cargos.Value(cargo, "sizertype")
	if sizerType != "" {
		var ok bool
		if scan {
			sizerIdx, ok = s.regs.Sizers.IndexByCode(sizerType, sizerIn)
		} else {
			sizerIdx, ok = s.regs.Sizers.IndexByName(sizerType, sizerIn)
		}
		if !ok {
			return -1, fmt.Errorf("%s: %s", msgSizerUnknown, sizerIn)
		}
	}

	rowIdx := s.findCargoColorRow(cargo, colorName)
	if rowIdx < 0 {
		var err error
		rowIdx, err = s.AppendRow()
		if err != nil {
			return -1, err
		}
		kc := s.keyCol()
		if err := s.SetCellText(rowIdx, kc, cargo); err != nil {
			return -1, err
		}
		if cc := s.col("color"); cc >= 0 && colorName != "" {
			if err := s.SetCellText(rowIdx, cc, colorName); err != nil {
				return -1, err
			}
		}
	}

	lo, hi := s.sizeColRange()
	colIdx := lo + sizerIdx
	if colIdx >= hi || s.Rows[rowIdx].cell(colIdx).Locked {
		return -1, fmt.Errorf("%s: %s", msgSizerUnknown, sizerIn)
	}
	cell := s.Rows[rowIdx].cell(colIdx)
	next := numFromText(cell.Text) + int64(delta)*numScale
	if next == 0 {
		cell.Text = ""
	} else {
		cell.Text = NumForRead(next, s.Cols[colIdx].Dots)
	}
	s.RecalcRow(rowIdx, EditedOther)
	s.applyFilters(false)
	return rowIdx, nil
}

// findCargoColorRow returns the first visible live row carrying the
// cargo and color, or -1.
func (s *Sheet) findCargoColorRow(cargo, colorName string) int {
	kc := s.keyCol()
	cc := s.col("color")
	for i, row := range s.Rows {
		if row.Hidden || row.State == EditDeleted {
			continue
		}
		if row.cell(kc).Text != cargo {
			continue
		}
		if cc >= 0 && row.cell(cc).Text != colorName {
			continue
		}
		return i
	}
	return -1
}
