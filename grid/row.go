package grid

// EditState tracks what a row needs at save time.
type EditState int

const (
	EditClean EditState = iota
	EditNew
	EditUpdated
	EditDeleted
)

func (s EditState) String() string {
	switch s {
	case EditNew:
		return "new"
	case EditUpdated:
		return "updated"
	case EditDeleted:
		return "deleted"
	default:
		return "clean"
	}
}

// CellCheck is a validation severity attached to a single cell.
type CellCheck int

const (
	CheckNone CellCheck = iota
	CheckWarning
	CheckError
)

func (c CellCheck) String() string {
	switch c {
	case CheckWarning:
		return "warning"
	case CheckError:
		return "error"
	default:
		return ""
	}
}

// Cell is one editable value with its saved prior value and its
// validation result.
type Cell struct {
	Text     string
	OldValue string
	Check    CellCheck
	Hint     string
	// Tip is the size name shown for size-matrix cells.
	Tip string
	// Locked marks a size cell beyond the row's registered size list.
	Locked bool
}

func (c *Cell) setCheck(check CellCheck, hint string) {
	c.Check = check
	c.Hint = hint
}

func (c *Cell) clearCheck() {
	c.Check = CheckNone
	c.Hint = ""
}

// Row is one record of the sheet.
type Row struct {
	Cells  []Cell
	State  EditState
	Hidden bool
	// SearchKey backs the Contain filter on the key column.
	SearchKey string
}

func newRow(cols int) *Row {
	return &Row{Cells: make([]Cell, cols), State: EditClean}
}

func (r *Row) cell(col int) *Cell { return &r.Cells[col] }

// maxCheck is the worst validation severity across the row.
func (r *Row) maxCheck() CellCheck {
	worst := CheckNone
	for i := range r.Cells {
		if r.Cells[i].Check > worst {
			worst = r.Cells[i].Check
		}
	}
	return worst
}

func (r *Row) markDirty() {
	if r.State == EditClean {
		r.State = EditUpdated
	}
}
