package grid

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParentIDPlaceholder stands in for the sheet header id inside
// generated detail SQL. The save executor substitutes the real id once
// the header row exists.
const ParentIDPlaceholder = "{parentid}"

// NeedSave reports whether any row carries unsaved work. The trailing
// never-touched appended row does not count.
func (s *Sheet) NeedSave() bool {
	for _, row := range s.Rows {
		if row.State == EditClean {
			continue
		}
		if row.State == EditNew && s.rowEmpty(row) {
			continue
		}
		return true
	}
	return false
}

// SaveCheck returns the worst validation severity across rows that
// would persist. CheckError blocks the save.
func (s *Sheet) SaveCheck() CellCheck {
	worst := CheckNone
	for _, row := range s.Rows {
		if row.State == EditDeleted {
			continue
		}
		if row.State == EditNew && s.rowEmpty(row) {
			continue
		}
		if c := row.maxCheck(); c > worst {
			worst = c
		}
	}
	return worst
}

// SaveSQL translates the dirty rows into ordered SQL statements:
// deletes, then inserts, then updates, all against the sheet's table.
func (s *Sheet) SaveSQL() []string {
	var deletes, inserts, updates []string
	for _, row := range s.Rows {
		switch row.State {
		case EditDeleted:
			deletes = append(deletes, s.rowDeleteSQL(row))
		case EditNew:
			if s.rowEmpty(row) {
				continue
			}
			inserts = append(inserts, s.rowInsertSQL(row))
		case EditUpdated:
			if stmt := s.rowUpdateSQL(row); stmt != "" {
				updates = append(updates, stmt)
			}
		}
	}
	out := make([]string, 0, len(deletes)+len(inserts)+len(updates))
	out = append(out, deletes...)
	out = append(out, inserts...)
	out = append(out, updates...)
	return out
}

// saveTable is the table the generated statements target.
func (s *Sheet) saveTable() string {
	if s.ForRegister {
		return s.Table
	}
	return s.Table + "dtl"
}

// persistable reports whether a column writes through to the table.
// Lookup columns render master data and size cells live inside the
// sizers blob.
func (s *Sheet) persistable(f *Field) bool {
	return !f.Any(FlagLookup | FlagSizeUnit)
}

// limitKeys returns the WHERE terms addressing the row: the key field
// for registers, parentid plus row timestamp for detail sheets. Values
// come from the saved baseline, never the edited texts.
func (s *Sheet) limitKeys(row *Row) []string {
	if s.ForRegister {
		kc := s.keyCol()
		f := s.Cols[kc]
		return []string{f.Name + "=" + s.sqlValue(f, row.cell(kc).OldValue)}
	}
	terms := []string{"parentid=" + s.parentIDValue()}
	if rc := s.col("rowtime"); rc >= 0 {
		terms = append(terms, "rowtime="+s.sqlValue(s.Cols[rc], row.cell(rc).OldValue))
	}
	return terms
}

func (s *Sheet) parentIDValue() string {
	if s.sheetID != 0 {
		return strconv.FormatInt(s.sheetID, 10)
	}
	return ParentIDPlaceholder
}

func (s *Sheet) rowDeleteSQL(row *Row) string {
	return fmt.Sprintf("DELETE FROM %s WHERE %s",
		s.saveTable(), strings.Join(s.limitKeys(row), " AND "))
}

func (s *Sheet) rowInsertSQL(row *Row) string {
	var names, values []string
	if !s.ForRegister {
		names = append(names, "parentid")
		values = append(values, s.parentIDValue())
	}
	for i, f := range s.Cols {
		if !s.persistable(f) {
			continue
		}
		names = append(names, f.Name)
		values = append(values, s.sqlValue(f, row.cell(i).Text))
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		s.saveTable(), strings.Join(names, ","), strings.Join(values, ","))
}

func (s *Sheet) rowUpdateSQL(row *Row) string {
	var sets []string
	for i, f := range s.Cols {
		if !s.persistable(f) || f.Is(FlagKey) {
			continue
		}
		cell := row.cell(i)
		if cell.Text == cell.OldValue {
			continue
		}
		sets = append(sets, f.Name+"="+s.sqlValue(f, cell.Text))
	}
	if len(sets) == 0 {
		return ""
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE %s",
		s.saveTable(), strings.Join(sets, ","), strings.Join(s.limitKeys(row), " AND "))
}

// sqlValue renders a display text as a SQL literal per the field type.
func (s *Sheet) sqlValue(f *Field, text string) string {
	switch {
	case f.Is(FlagNumeric):
		return strconv.FormatInt(numFromText(text), 10)
	case f.Is(FlagBool):
		if text != "" && text != "0" {
			return "-1"
		}
		return "0"
	case f.Is(FlagDate):
		if text == "" {
			return "0"
		}
		t, err := time.ParseInLocation("2006-01-02", text, time.Local)
		if err != nil {
			return "0"
		}
		return strconv.FormatInt(t.Unix(), 10)
	case f.Is(FlagDateTime):
		if text == "" {
			return "0"
		}
		t, err := time.ParseInLocation("2006-01-02 15:04:05", text, time.Local)
		if err != nil {
			return "0"
		}
		return strconv.FormatInt(t.UnixMilli(), 10)
	case f.Is(FlagInt):
		iv, _ := strconv.ParseInt(text, 10, 64)
		return strconv.FormatInt(iv, 10)
	default:
		return "'" + escapeText(text, f.Dots) + "'"
	}
}

// escapeText defuses quotes and trims overlong input to the declared
// column length without splitting a rune.
func escapeText(text string, maxLen int) string {
	text = strings.ReplaceAll(text, "'", "’")
	if maxLen > 0 && len(text) > maxLen {
		cut := maxLen
		for cut > 0 && !utf8RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	return text
}

func utf8RuneStart(b byte) bool { return b&0xC0 != 0x80 }

// SavedReconcile settles the in-memory state after the statements
// committed: deleted rows vanish, everything else becomes the new
// baseline.
func (s *Sheet) SavedReconcile() {
	kept := s.Rows[:0]
	for _, row := range s.Rows {
		if row.State == EditDeleted {
			continue
		}
		s.snapshotOldValues(row)
		row.State = EditClean
		kept = append(kept, row)
	}
	s.Rows = kept
	s.applyFilters(false)
}

// CancelRestore abandons the session: new rows vanish, edited rows roll
// back to their saved baseline.
func (s *Sheet) CancelRestore() error {
	kept := s.Rows[:0]
	for _, row := range s.Rows {
		if row.State == EditNew {
			continue
		}
		kept = append(kept, row)
	}
	s.Rows = kept
	for i, row := range s.Rows {
		if row.State == EditClean {
			continue
		}
		if err := s.restoreRow(i); err != nil {
			return err
		}
		row.State = EditClean
		row.Hidden = false
	}
	s.applyFilters(false)
	return nil
}

// restoreRow rolls one row back to its saved texts and re-expands its
// size cells from the saved blob.
func (s *Sheet) restoreRow(rowIdx int) error {
	row := s.Rows[rowIdx]
	lo, hi := s.sizeColRange()
	for i := range row.Cells {
		if i >= lo && i < hi {
			continue
		}
		row.Cells[i].Text = row.Cells[i].OldValue
		row.Cells[i].clearCheck()
	}
	if s.col("sizers") >= 0 {
		return s.spreadSizeCells(rowIdx)
	}
	return nil
}

// DeleteOrRestoreRow toggles a row's fate: a new row vanishes, a clean
// row marks deleted, a dirty or deleted row rolls back to clean.
func (s *Sheet) DeleteOrRestoreRow(rowIdx int) error {
	if s.ForQuery {
		return fmt.Errorf("query sheet is read-only")
	}
	if rowIdx < 0 || rowIdx >= len(s.Rows) {
		return fmt.Errorf("row %d out of range", rowIdx)
	}
	row := s.Rows[rowIdx]
	switch row.State {
	case EditNew:
		s.Rows = append(s.Rows[:rowIdx], s.Rows[rowIdx+1:]...)
	case EditClean:
		row.State = EditDeleted
		if s.opts.HideDroppedRows {
			row.Hidden = true
		}
	default:
		if err := s.restoreRow(rowIdx); err != nil {
			return err
		}
		row.State = EditClean
		row.Hidden = false
	}
	s.applyFilters(false)
	return nil
}
