package sheet

import (
	"log"
	"net/http"

	"github.com/jmoiron/sqlx"

	"tally/config"
	"tally/database"
	"tally/grid"
	"tally/registry"
)

// SaveHandler persists a session. A blocking validation error or an
// unbalanced finance sheet returns 400 with the reason; otherwise the
// grid's statements run in one transaction and the session reconciles
// to its new saved baseline.
func SaveHandler(db *sqlx.DB, st *Store, masters *registry.Holder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			SessionID int64  `json:"sessionId"`
			Shop      string `json:"shop"`
			Staff     string `json:"staff"`
			Remark    string `json:"remark"`
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

		if s.Kind == KindQuery {
			writeError(w, http.StatusBadRequest, "query session cannot be saved")
			return
		}
		if !g.NeedSave() {
			writeJSON(w, NewSheetView(s))
			return
		}
		if g.SaveCheck() == grid.CheckError {
			writeError(w, http.StatusBadRequest, "sheet has blocking cell errors")
			return
		}

		if s.Kind == KindRegister {
			if err := database.ExecRegisterSave(db, g.SaveSQL()); err != nil {
				log.Printf("Failed to save %s register: %v", s.Table, err)
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			g.SavedReconcile()
			if err := masters.Reload(db); err != nil {
				log.Printf("WARN: Master reload after save failed: %v", err)
			}
			writeJSON(w, NewSheetView(s))
			return
		}

		if s.Table == "szd" && !g.CheckBalance() {
			writeError(w, http.StatusBadRequest, "income and expense do not balance")
			return
		}

		header := s.Header
		header.SheetID = g.SheetID()
		header.Shop = req.Shop
		header.Staff = req.Staff
		header.Remark = req.Remark
		header.UpMan = config.GetConfig().Operator
		if s.Table == "szd" {
			header.SumMoney = grid.NumForSave(g.ColSumByFieldName("income"))
		} else {
			header.SumQty = grid.NumForSave(g.ColSumByFieldName("qty"))
			header.SumMoney = grid.NumForSave(g.ColSumByFieldName("actmoney"))
		}

		id, err := database.ExecSheetSave(db, s.Table, header, g.SaveSQL())
		if err != nil {
			log.Printf("Failed to save %s sheet %d: %v", s.Table, header.SheetID, err)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		g.SetSheetID(id)
		header.SheetID = id
		s.Header = header
		g.SavedReconcile()
		log.Printf("Saved %s sheet %d", s.Table, id)
		writeJSON(w, NewSheetView(s))
	}
}

// DeleteSheetHandler removes a saved sheet with its detail rows.
func DeleteSheetHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Table   string `json:"table"`
			SheetID int64  `json:"sheetId"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		if req.SheetID <= 0 {
			writeError(w, http.StatusBadRequest, "sheetId required")
			return
		}
		if err := database.DeleteSheet(db, req.Table, req.SheetID); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("Deleted %s sheet %d", req.Table, req.SheetID)
		writeJSON(w, map[string]bool{"deleted": true})
	}
}
