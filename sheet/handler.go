package sheet

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/jmoiron/sqlx"

	"tally/config"
	"tally/database"
	"tally/grid"
	"tally/model"
	"tally/registry"
	"tally/searchkey"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("WARN: Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// gridRegistries binds the current master snapshot to the engine
// interfaces.
func gridRegistries(set *registry.Set, policies []grid.PricingPolicy) grid.Registries {
	return grid.Registries{
		Cargos:   set.Cargos,
		Colors:   set.Colors,
		Sizers:   set.Sizers,
		Subjects: set.Subjects,
		Policies: policies,
	}
}

// OpenSheetHandler opens an edit session over a detail sheet: a saved
// one by id, or a fresh one for a trader.
func OpenSheetHandler(db *sqlx.DB, st *Store, masters *registry.Holder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Table   string `json:"table"`
			SheetID int64  `json:"sheetId"`
			Trader  string `json:"trader"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		if !database.ValidSheetTable(req.Table) {
			writeError(w, http.StatusBadRequest, "unknown sheet table: "+req.Table)
			return
		}

		header := model.SheetHeader{Trader: req.Trader, TraderDis: 10000}
		if req.SheetID > 0 {
			var err error
			header, err = database.GetSheetHeader(db, req.Table, req.SheetID)
			if err != nil {
				log.Printf("WARN: Failed to open %s sheet %d: %v", req.Table, req.SheetID, err)
				writeError(w, http.StatusNotFound, "sheet not found")
				return
			}
		} else if req.Trader != "" {
			if t, err := database.GetTrader(db, req.Trader); err == nil {
				header.TraderDis = t.TraderDis
			} else if !errors.Is(err, sql.ErrNoRows) {
				log.Printf("WARN: Trader lookup failed for %s: %v", req.Trader, err)
			}
		}

		cfg := config.GetConfig()
		opts := cfg.GridOptions()

		var g *grid.Sheet
		if req.Table == "szd" {
			g = grid.NewFinanceSheet(req.Table, opts, gridRegistries(masters.Current(), nil))
		} else {
			policies, err := database.GetActivePolicies(db)
			if err != nil {
				log.Printf("WARN: Pricing policies unavailable: %v", err)
			}
			var gerr error
			g, gerr = grid.NewCargoSheet(req.Table, opts, gridRegistries(masters.Current(), policies), cfg.BarcodeRules)
			if gerr != nil {
				writeError(w, http.StatusInternalServerError, gerr.Error())
				return
			}
		}
		g.SetTrader(header.Trader, float64(header.TraderDis)/10000)
		g.SearchKeyFunc = searchkey.Build

		cols, recs, err := database.FetchSheetDetail(db, req.Table, header.SheetID)
		if err != nil {
			log.Printf("Failed to fetch %s detail: %v", req.Table, err)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if err := g.Load(cols, recs); err != nil {
			log.Printf("Failed to load %s sheet %d: %v", req.Table, header.SheetID, err)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		g.SetSheetID(header.SheetID)
		if _, err := g.AppendRow(); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		s := st.Add(KindSheet, req.Table, header, g)
		writeJSON(w, NewSheetView(s))
	}
}

// OpenRegisterHandler opens an edit session over a master table.
func OpenRegisterHandler(db *sqlx.DB, st *Store, masters *registry.Holder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Table string `json:"table"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		cols, recs, err := database.FetchRegister(db, req.Table)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		cfg := config.GetConfig()
		g := grid.NewRegisterSheet(req.Table, cfg.GridOptions(), gridRegistries(masters.Current(), nil))
		g.SearchKeyFunc = searchkey.Build
		if err := g.Load(cols, recs); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if _, err := g.AppendRow(); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		s := st.Add(KindRegister, req.Table, model.SheetHeader{}, g)
		writeJSON(w, NewSheetView(s))
	}
}

// StockQueryHandler opens a read-only aggregated stock grid.
func StockQueryHandler(db *sqlx.DB, st *Store, masters *registry.Holder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			WithCalcMoney bool `json:"withCalcMoney"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		cols, recs, err := database.FetchStockQuery(db)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		cfg := config.GetConfig()
		g := grid.NewQuerySheet(cfg.GridOptions(), gridRegistries(masters.Current(), nil))
		g.SearchKeyFunc = searchkey.Build
		if err := g.Load(cols, recs); err != nil {
			log.Printf("Failed to load stock query: %v", err)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if req.WithCalcMoney {
			g.AddCalcMoneyColByPrice("buyprice")
		}

		s := st.Add(KindQuery, "stock", model.SheetHeader{}, g)
		writeJSON(w, NewSheetView(s))
	}
}

// SalesQueryHandler opens a read-only per-cargo turnover grid for one
// sheet family in a time window.
func SalesQueryHandler(db *sqlx.DB, st *Store, masters *registry.Holder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Table string `json:"table"`
			From  int64  `json:"from"`
			To    int64  `json:"to"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		if req.To == 0 {
			req.To = 1<<62 - 1
		}
		cols, recs, err := database.FetchSalesQuery(db, req.Table, req.From, req.To)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		cfg := config.GetConfig()
		g := grid.NewQuerySheet(cfg.GridOptions(), gridRegistries(masters.Current(), nil))
		g.SearchKeyFunc = searchkey.Build
		if err := g.Load(cols, recs); err != nil {
			log.Printf("Failed to load %s sales query: %v", req.Table, err)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		g.AddCalcMoneyColByPrice("buyprice")

		s := st.Add(KindQuery, req.Table, model.SheetHeader{}, g)
		writeJSON(w, NewSheetView(s))
	}
}

// CellEditHandler commits one cell edit.
func CellEditHandler(st *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			SessionID int64  `json:"sessionId"`
			Row       int    `json:"row"`
			Col       int    `json:"col"`
			Text      string `json:"text"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		s, err := st.Get(req.SessionID)
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.Lock()
		defer s.Unlock()
		if err := s.Grid.SetCellText(req.Row, req.Col, req.Text); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, NewSheetView(s))
	}
}

// ScanHandler books one barcode scan.
func ScanHandler(st *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			SessionID int64  `json:"sessionId"`
			Barcode   string `json:"barcode"`
			Delta     int    `json:"delta"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		s, err := st.Get(req.SessionID)
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		if req.Delta == 0 {
			req.Delta = 1
		}
		s.Lock()
		defer s.Unlock()
		rowIdx, err := s.Grid.Scan(req.Barcode, req.Delta)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeJSON(w, struct {
			Row int `json:"row"`
			SheetView
		}{rowIdx, NewSheetView(s)})
	}
}

// InputHandler books a manually keyed cargo/color/size quantity.
func InputHandler(st *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			SessionID int64  `json:"sessionId"`
			Cargo     string `json:"cargo"`
			Color     string `json:"color"`
			Sizer     string `json:"sizer"`
			Qty       int    `json:"qty"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		s, err := st.Get(req.SessionID)
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		if req.Qty == 0 {
			req.Qty = 1
		}
		s.Lock()
		defer s.Unlock()
		rowIdx, err := s.Grid.InputCargoRow(req.Cargo, req.Color, req.Sizer, req.Qty, false)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeJSON(w, struct {
			Row int `json:"row"`
			SheetView
		}{rowIdx, NewSheetView(s)})
	}
}

// FilterHandler mutates the column filters.
func FilterHandler(st *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			SessionID int64    `json:"sessionId"`
			Col       int      `json:"col"`
			Kind      string   `json:"kind"`
			Values    []string `json:"values"`
			Needle    string   `json:"needle"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		s, err := st.Get(req.SessionID)
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.Lock()
		defer s.Unlock()
		g := s.Grid
		if req.Kind != "clearall" && (req.Col < 0 || req.Col >= len(g.Cols)) {
			writeError(w, http.StatusBadRequest, "column out of range")
			return
		}
		switch req.Kind {
		case "equal":
			g.FilterEqual(req.Col, req.Values...)
		case "out":
			g.FilterOut(req.Col, req.Values...)
		case "contain":
			g.FilterContain(req.Col, req.Needle)
		case "clear":
			g.ClearFilter(req.Col)
		case "clearall":
			g.ClearAllFilters()
		default:
			writeError(w, http.StatusBadRequest, "unknown filter kind: "+req.Kind)
			return
		}
		writeJSON(w, NewSheetView(s))
	}
}

// RowHandler appends a row, toggles delete/restore, moves a row, or
// merges duplicates.
func RowHandler(st *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			SessionID int64  `json:"sessionId"`
			Action    string `json:"action"`
			Row       int    `json:"row"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		s, err := st.Get(req.SessionID)
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.Lock()
		defer s.Unlock()
		switch req.Action {
		case "append":
			if _, err := s.Grid.AppendRow(); err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
		case "toggle":
			if err := s.Grid.DeleteOrRestoreRow(req.Row); err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
		case "up", "down":
			dir := -1
			if req.Action == "down" {
				dir = 1
			}
			if err := s.Grid.MoveRow(req.Row, dir); err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
		case "merge":
			s.Grid.UniteCargoColorPrice()
		default:
			writeError(w, http.StatusBadRequest, "unknown row action: "+req.Action)
			return
		}
		writeJSON(w, NewSheetView(s))
	}
}

// BatchPriceHandler reprices every row from a basis.
func BatchPriceHandler(st *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			SessionID int64  `json:"sessionId"`
			PriceName string `json:"priceName"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		s, err := st.Get(req.SessionID)
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.Lock()
		defer s.Unlock()
		s.Grid.AutoBatchPrice(req.PriceName)
		writeJSON(w, NewSheetView(s))
	}
}

// CancelHandler rolls the session back to its saved state.
func CancelHandler(st *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			SessionID int64 `json:"sessionId"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		s, err := st.Get(req.SessionID)
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.Lock()
		defer s.Unlock()
		if err := s.Grid.CancelRestore(); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, NewSheetView(s))
	}
}

// CloseHandler drops a session without saving.
func CloseHandler(st *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			SessionID int64 `json:"sessionId"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		st.Drop(req.SessionID)
		writeJSON(w, map[string]bool{"closed": true})
	}
}

// ListSheetsHandler lists saved headers of a table in a time range.
func ListSheetsHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Table string `json:"table"`
			From  int64  `json:"from"`
			To    int64  `json:"to"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		if req.To == 0 {
			req.To = 1<<62 - 1
		}
		headers, err := database.ListSheetHeaders(db, req.Table, req.From, req.To)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, headers)
	}
}
