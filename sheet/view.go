package sheet

import (
	"tally/grid"
	"tally/model"
)

// The view structs are the JSON shape the browser grid renders.

type ColView struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Width    int    `json:"width"`
	Hidden   bool   `json:"hidden"`
	ReadOnly bool   `json:"readOnly"`
	IsKey    bool   `json:"isKey"`
	Footer   string `json:"footer"`
	Filtered bool   `json:"filtered"`
}

type CellView struct {
	Text   string `json:"text"`
	Check  string `json:"check,omitempty"`
	Hint   string `json:"hint,omitempty"`
	Tip    string `json:"tip,omitempty"`
	Locked bool   `json:"locked,omitempty"`
}

type RowView struct {
	Cells  []CellView `json:"cells"`
	State  string     `json:"state"`
	Hidden bool       `json:"hidden"`
}

type SheetView struct {
	SessionID   int64             `json:"sessionId"`
	Table       string            `json:"table"`
	Header      model.SheetHeader `json:"header"`
	Cols        []ColView         `json:"cols"`
	Rows        []RowView         `json:"rows"`
	VisibleRows int               `json:"visibleRows"`
	Filtering   bool              `json:"filtering"`
	NeedSave    bool              `json:"needSave"`
	ZeroSize    []int             `json:"zeroSizeCols,omitempty"`
}

// NewSheetView snapshots a session for the client.
func NewSheetView(s *Session) SheetView {
	g := s.Grid
	view := SheetView{
		SessionID:   s.ID,
		Table:       s.Table,
		Header:      s.Header,
		VisibleRows: g.VisibleRows(),
		Filtering:   g.Filtering(),
		NeedSave:    g.NeedSave(),
		ZeroSize:    g.ZeroSizeCols(),
	}
	view.Header.SheetID = g.SheetID()

	for _, f := range g.Cols {
		view.Cols = append(view.Cols, ColView{
			Name:     f.Name,
			Title:    f.Title,
			Width:    f.Width,
			Hidden:   f.Is(grid.FlagHideSys),
			ReadOnly: f.Any(grid.FlagReadOnly | grid.FlagHideSys),
			IsKey:    f.Is(grid.FlagKey),
			Footer:   f.FooterText(),
			Filtered: f.FilterKind() == grid.FilterEqual || f.FilterKind() == grid.FilterNotEqual,
		})
	}
	for _, row := range g.Rows {
		rv := RowView{State: row.State.String(), Hidden: row.Hidden}
		for i := range row.Cells {
			c := &row.Cells[i]
			rv.Cells = append(rv.Cells, CellView{
				Text:   c.Text,
				Check:  c.Check.String(),
				Hint:   c.Hint,
				Tip:    c.Tip,
				Locked: c.Locked,
			})
		}
		view.Rows = append(view.Rows, rv)
	}
	return view
}
