package grid

import (
	"strconv"
	"strings"
)

// The sizers column persists the whole size matrix of a row as one text
// blob: lines of "name\tscaledQty" joined by '\n'. Query results may
// concatenate several blobs with '\r', a leading '\f' negating the
// record that follows.

const (
	sizerPairSep   = "\t"
	sizerLineSep   = "\n"
	sizerRecordSep = "\r"
	sizerNegMark   = "\f"
)

// sizerNames resolves the registered size names of a cargo. A cargo
// without a size group gets the single mixed-size slot.
func (s *Sheet) sizerNames(cargo string) []string {
	st := s.regs.Cargos.Value(cargo, "sizertype")
	if st == "" {
		return []string{msgMixSizeName}
	}
	names := s.regs.Sizers.Names(st)
	if len(names) == 0 {
		return []string{msgMixSizeName}
	}
	return names
}

// ensureSizerCols grows the size matrix to at least n columns, padding
// every existing row with locked blanks.
func (s *Sheet) ensureSizerCols(n int) {
	for s.sizerColCount < n {
		at := s.sizerPrevCol + 1 + s.sizerColCount
		s.Cols = append(s.Cols, nil)
		copy(s.Cols[at+1:], s.Cols[at:])
		s.Cols[at] = newSizeField(s.sizerColCount + 1)
		for _, row := range s.Rows {
			row.Cells = append(row.Cells, Cell{})
			copy(row.Cells[at+1:], row.Cells[at:])
			row.Cells[at] = Cell{Locked: true}
		}
		s.sizerColCount++
	}
}

// readySizer rebinds the row's size cells to the cargo's size list:
// registered slots become editable with the size name as tip, the rest
// lock.
func (s *Sheet) readySizer(rowIdx int, cargo string) {
	names := s.sizerNames(cargo)
	s.ensureSizerCols(len(names))
	row := s.Rows[rowIdx]
	lo, hi := s.sizeColRange()
	for i := lo; i < hi; i++ {
		cell := row.cell(i)
		cell.Text = ""
		cell.Tip = ""
		cell.Locked = true
		cell.clearCheck()
	}
	for i, name := range names {
		cell := row.cell(lo + i)
		cell.Tip = name
		cell.Locked = false
	}
}

// spreadSizeCells expands the row's sizers blob into the size cells.
// Quantities whose size name is not registered for the cargo stay in
// the blob and mark the qty cell as an error.
func (s *Sheet) spreadSizeCells(rowIdx int) error {
	row := s.Rows[rowIdx]
	sizersCol := s.col("sizers")
	if sizersCol < 0 {
		return nil
	}
	// readySizer can grow the matrix and shift the sizers column, so
	// take the blob before it runs.
	blob := row.cell(sizersCol).Text
	cargo := row.cell(s.keyCol()).Text
	s.readySizer(rowIdx, cargo)

	if blob == "" {
		return nil
	}
	names := s.sizerNames(cargo)
	lo, _ := s.sizeColRange()
	var leftover []string
	for _, line := range strings.Split(blob, sizerLineSep) {
		pair := strings.Split(line, sizerPairSep)
		if len(pair) != 2 {
			return &StructuralError{Reason: "bad sizer pair: " + line}
		}
		qty, err := strconv.ParseInt(pair[1], 10, 64)
		if err != nil {
			return &StructuralError{Reason: "bad sizer qty: " + line}
		}
		idx := -1
		for i, name := range names {
			if name == pair[0] {
				idx = i
				break
			}
		}
		if idx < 0 {
			leftover = append(leftover, pair[0])
			continue
		}
		cell := row.cell(lo + idx)
		if qty == 0 {
			cell.Text = ""
		} else {
			cell.Text = NumForRead(qty, s.Cols[lo+idx].Dots)
		}
	}
	if qc := s.col("qty"); qc >= 0 {
		if len(leftover) > 0 {
			row.cell(qc).setCheck(CheckError, msgSizeLeftover+strings.Join(leftover, " "))
		} else {
			row.cell(qc).clearCheck()
		}
	}
	return nil
}

// updateSizersBlob reserializes the row's size cells into the sizers
// column. Only nonzero named cells persist.
func (s *Sheet) updateSizersBlob(rowIdx int) {
	sizersCol := s.col("sizers")
	if sizersCol < 0 {
		return
	}
	row := s.Rows[rowIdx]
	lo, hi := s.sizeColRange()
	var lines []string
	for i := lo; i < hi; i++ {
		cell := row.cell(i)
		if cell.Tip == "" {
			continue
		}
		qty := numFromText(cell.Text)
		if qty == 0 {
			continue
		}
		lines = append(lines, cell.Tip+sizerPairSep+strconv.FormatInt(qty, 10))
	}
	row.cell(sizersCol).Text = strings.Join(lines, sizerLineSep)
}

// sizerTextSum folds a multi-record blob into one record, honoring the
// negation marker.
func sizerTextSum(blob string) (string, error) {
	if blob == "" {
		return "", nil
	}
	var order []string
	sums := map[string]int64{}
	for _, record := range strings.Split(blob, sizerRecordSep) {
		sign := int64(1)
		if strings.HasPrefix(record, sizerNegMark) {
			sign = -1
			record = record[len(sizerNegMark):]
		}
		if record == "" {
			return "", &StructuralError{Reason: "empty sizer record"}
		}
		for _, line := range strings.Split(record, sizerLineSep) {
			pair := strings.Split(line, sizerPairSep)
			if len(pair) != 2 {
				return "", &StructuralError{Reason: "bad sizer pair: " + line}
			}
			qty, err := strconv.ParseInt(pair[1], 10, 64)
			if err != nil {
				return "", &StructuralError{Reason: "bad sizer qty: " + line}
			}
			if _, seen := sums[pair[0]]; !seen {
				order = append(order, pair[0])
			}
			sums[pair[0]] += sign * qty
		}
	}
	var lines []string
	for _, name := range order {
		if sums[name] == 0 {
			continue
		}
		lines = append(lines, name+sizerPairSep+strconv.FormatInt(sums[name], 10))
	}
	return strings.Join(lines, sizerLineSep), nil
}

// ZeroSizeCols lists size columns that hold no quantity in any
// non-deleted row, for the UI to hide.
func (s *Sheet) ZeroSizeCols() []int {
	lo, hi := s.sizeColRange()
	var zero []int
	for i := lo; i < hi; i++ {
		used := false
		for _, row := range s.Rows {
			if row.State == EditDeleted {
				continue
			}
			if numFromText(row.cell(i).Text) != 0 {
				used = true
				break
			}
		}
		if !used {
			zero = append(zero, i)
		}
	}
	return zero
}
