package grid

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// StructuralError reports a corrupt size blob. It aborts the load that
// hit it instead of degrading a single cell.
type StructuralError struct {
	Reason string
}

func (e *StructuralError) Error() string {
	return "structural: " + e.Reason
}

// Options carries the per-installation behavior knobs.
type Options struct {
	Dots            Dots
	AutoFirstColor  bool
	HideDroppedRows bool
	// HpMarkAttr picks the cargo attribute slot (1..6) copied into the
	// hpmark column on prefill, 0 for none.
	HpMarkAttr int
	Operator   string
	// TitleOverrides remaps column titles per installation, keyed by
	// field name.
	TitleOverrides map[string]string
}

// Sheet is the editable ledger grid. One engine serves query results,
// master registers, cargo detail sheets and finance sheets, configured
// by the behavior flags below.
type Sheet struct {
	Table string

	ForQuery       bool
	ForRegister    bool
	HasSizeMatrix  bool
	HasPricingRule bool

	Cols []*Field
	Rows []*Row

	opts Options
	regs Registries

	rules []barcodeRule

	traderName     string
	traderDiscount float64

	// sheetID is the saved header id; 0 while the header is unsaved.
	sheetID int64

	sizerPrevCol  int
	sizerColCount int

	filtering   bool
	visibleRows int

	// SearchKeyFunc builds the ancillary key backing the Contain
	// filter. Nil disables it.
	SearchKeyFunc func(string) string

	// OnFilterState fires when filtering switches on or off.
	OnFilterState func(active bool)
	// OnHint surfaces a non-fatal condition to the operator.
	OnHint func(msg string)
}

// NewQuerySheet builds a read-only result sheet.
func NewQuerySheet(opts Options, regs Registries) *Sheet {
	return &Sheet{ForQuery: true, opts: opts, regs: regs}
}

// NewRegisterSheet builds an editable master register over table.
func NewRegisterSheet(table string, opts Options, regs Registries) *Sheet {
	return &Sheet{Table: table, ForRegister: true, opts: opts, regs: regs}
}

// NewCargoSheet builds a detail sheet over table+"dtl" with the size
// matrix and prefill pricing enabled.
func NewCargoSheet(table string, opts Options, regs Registries, rules []BarcodeRule) (*Sheet, error) {
	compiled, err := compileRules(rules)
	if err != nil {
		return nil, err
	}
	return &Sheet{
		Table:          table,
		HasSizeMatrix:  true,
		HasPricingRule: true,
		opts:           opts,
		regs:           regs,
		rules:          compiled,
	}, nil
}

// NewFinanceSheet builds a subject/income/expense detail sheet.
func NewFinanceSheet(table string, opts Options, regs Registries) *Sheet {
	return &Sheet{Table: table, opts: opts, regs: regs}
}

// SetTrader sets the counterparty whose discount seeds prefill pricing.
func (s *Sheet) SetTrader(name string, discount float64) {
	s.traderName = name
	s.traderDiscount = discount
}

func (s *Sheet) TraderDiscount() float64 { return s.traderDiscount }

// SetSheetID records the saved header id new detail rows belong to.
func (s *Sheet) SetSheetID(id int64) { s.sheetID = id }

func (s *Sheet) SheetID() int64 { return s.sheetID }

// Filtering reports whether any column filter is active.
func (s *Sheet) Filtering() bool { return s.filtering }

// VisibleRows is the row count after the last filter pass.
func (s *Sheet) VisibleRows() int { return s.visibleRows }

func (s *Sheet) col(name string) int {
	for i, f := range s.Cols {
		if f.Name == name {
			return i
		}
	}
	return -1
}

func (s *Sheet) keyCol() int {
	for i, f := range s.Cols {
		if f.Is(FlagKey) {
			return i
		}
	}
	return -1
}

// sizeColRange returns the half-open column range of the size matrix.
func (s *Sheet) sizeColRange() (int, int) {
	return s.sizerPrevCol + 1, s.sizerPrevCol + 1 + s.sizerColCount
}

func (s *Sheet) isSizeCol(col int) bool {
	lo, hi := s.sizeColRange()
	return col >= lo && col < hi
}

// Load replaces the sheet contents with a query result. cols and recs
// come from the detail SELECT; sheet and register grids rely on the
// SELECT listing the catalog fields in their canonical order.
func (s *Sheet) Load(cols []string, recs [][]any) error {
	s.Cols = make([]*Field, 0, len(cols))
	for _, name := range cols {
		f := NewField(name, s.opts.Dots)
		if t, ok := s.opts.TitleOverrides[name]; ok {
			f.Title = t
		}
		s.Cols = append(s.Cols, f)
	}
	if s.ForRegister {
		// Registers edit the master attributes that detail sheets only
		// look up.
		for _, f := range s.Cols {
			f.Flags &^= FlagLookup
			if f.Name != "upman" && f.Name != "uptime" {
				f.Flags &^= FlagReadOnly
			}
		}
	}
	s.Rows = nil
	s.sizerColCount = 0

	sizersCol := s.col("sizers")
	if sizersCol >= 0 {
		if s.ForQuery {
			s.sizerPrevCol = sizersCol
		} else {
			colorCol := s.col("color")
			if colorCol < 0 {
				return fmt.Errorf("sheet %s: sizers column without color column", s.Table)
			}
			s.sizerPrevCol = colorCol
		}
	} else {
		s.sizerPrevCol = -1
	}

	keyCol := s.keyCol()
	for _, rec := range recs {
		if len(rec) != len(cols) {
			return fmt.Errorf("sheet %s: record width %d, want %d", s.Table, len(rec), len(cols))
		}
		row := newRow(len(s.Cols))
		for i, v := range rec {
			cell := row.cell(i)
			if sizersCol >= 0 && i == sizersCol {
				blob := textOf(v)
				if s.ForQuery {
					summed, err := sizerTextSum(blob)
					if err != nil {
						return err
					}
					blob = summed
				}
				cell.Text = blob
				continue
			}
			cell.Text = s.displayText(s.Cols[i], v)
		}
		if keyCol >= 0 && s.SearchKeyFunc != nil {
			seed := row.cell(keyCol).Text
			if nameCol := s.col("hpname"); nameCol >= 0 {
				seed += row.cell(nameCol).Text
			}
			row.SearchKey = s.SearchKeyFunc(seed)
		}
		s.Rows = append(s.Rows, row)
	}

	if sizersCol >= 0 {
		for i := range s.Rows {
			if err := s.spreadSizeCells(i); err != nil {
				return err
			}
		}
	}

	for i := range s.Rows {
		s.snapshotOldValues(s.Rows[i])
	}
	s.applyFilters(false)
	return nil
}

// snapshotOldValues freezes the current texts as the saved baseline.
func (s *Sheet) snapshotOldValues(row *Row) {
	for i := range row.Cells {
		row.Cells[i].OldValue = row.Cells[i].Text
	}
}

func textOf(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return fmt.Sprint(t)
	}
}

// displayText renders a driver value per the field's flags.
func (s *Sheet) displayText(f *Field, v any) string {
	if v == nil {
		return ""
	}
	iv, isInt := v.(int64)
	if !isInt {
		if fv, ok := v.(float64); ok {
			iv, isInt = int64(fv), true
		}
	}
	if isInt {
		switch {
		case f.Is(FlagNumeric):
			if iv == 0 && f.Is(FlagBlankZero) {
				return ""
			}
			return NumForRead(iv, f.Dots)
		case f.Is(FlagBool):
			if iv != 0 {
				return "是"
			}
			return ""
		case f.Is(FlagDate):
			if iv == 0 {
				return ""
			}
			return time.Unix(iv, 0).Format("2006-01-02")
		case f.Is(FlagDateTime):
			if iv == 0 {
				return ""
			}
			return time.UnixMilli(iv).Format("2006-01-02 15:04:05")
		default:
			return strconv.FormatInt(iv, 10)
		}
	}
	return textOf(v)
}

// AppendRow adds an empty editable row and returns its index.
func (s *Sheet) AppendRow() (int, error) {
	if s.ForQuery {
		return 0, fmt.Errorf("query sheet is read-only")
	}
	row := newRow(len(s.Cols))
	row.State = EditNew
	lo, hi := s.sizeColRange()
	for i := lo; i < hi; i++ {
		row.cell(i).Locked = true
	}
	s.fillNewRowDefaults(row)
	s.Rows = append(s.Rows, row)
	return len(s.Rows) - 1, nil
}

// fillNewRowDefaults stamps the system columns of a fresh row.
func (s *Sheet) fillNewRowDefaults(row *Row) {
	now := time.Now()
	if c := s.col("regdis"); c >= 0 {
		row.cell(c).Text = strconv.FormatFloat(1, 'f', s.Cols[c].Dots, 64)
	}
	if c := s.col("upman"); c >= 0 {
		row.cell(c).Text = s.opts.Operator
	}
	if c := s.col("uptime"); c >= 0 {
		row.cell(c).Text = now.Format("2006-01-02")
	}
	if c := s.col("rowtime"); c >= 0 {
		row.cell(c).Text = now.Format("2006-01-02 15:04:05")
	}
}

// rowEmpty reports whether every editable user cell of the row is
// blank, meaning the trailing appended row was never touched.
func (s *Sheet) rowEmpty(row *Row) bool {
	for i, f := range s.Cols {
		if f.Any(FlagReadOnly|FlagHideSys) || f.Is(FlagSizeUnit) {
			continue
		}
		switch f.Name {
		case "discount", "regdis", "upman", "uptime":
			continue
		}
		if strings.TrimSpace(row.cell(i).Text) != "" {
			return false
		}
	}
	return true
}

// MoveRow swaps a detail row with its neighbor (dir -1 up, +1 down).
// The two rows trade rowtime values so the new order persists, and both
// rows go dirty.
func (s *Sheet) MoveRow(rowIdx, dir int) error {
	if s.ForQuery {
		return fmt.Errorf("query sheet is read-only")
	}
	if dir != -1 && dir != 1 {
		return fmt.Errorf("bad move direction %d", dir)
	}
	other := rowIdx + dir
	if rowIdx < 0 || rowIdx >= len(s.Rows) || other < 0 || other >= len(s.Rows) {
		return fmt.Errorf("row %d out of range", rowIdx)
	}
	a, b := s.Rows[rowIdx], s.Rows[other]
	if a.State == EditDeleted || b.State == EditDeleted {
		return fmt.Errorf("cannot move a deleted row")
	}
	if rc := s.col("rowtime"); rc >= 0 {
		a.cell(rc).Text, b.cell(rc).Text = b.cell(rc).Text, a.cell(rc).Text
	}
	s.Rows[rowIdx], s.Rows[other] = b, a
	a.markDirty()
	b.markDirty()
	return nil
}

// FindRowByKeyValue returns the first non-deleted row whose key cell
// holds value, or -1.
func (s *Sheet) FindRowByKeyValue(value string) int {
	kc := s.keyCol()
	if kc < 0 {
		return -1
	}
	for i, row := range s.Rows {
		if row.State == EditDeleted {
			continue
		}
		if row.cell(kc).Text == value {
			return i
		}
	}
	return -1
}

func (s *Sheet) hint(msg string) {
	if s.OnHint != nil {
		s.OnHint(msg)
	}
}
