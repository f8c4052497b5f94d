package main

import (
	"net/http"

	"github.com/jmoiron/sqlx"

	"tally/automation"
	"tally/registry"
	"tally/sheet"
)

func SetupRoutes(mux *http.ServeMux, dbConn *sqlx.DB, store *sheet.Store, masters *registry.Holder) {

	mux.HandleFunc("/api/sheet/open", sheet.OpenSheetHandler(dbConn, store, masters))
	mux.HandleFunc("/api/sheet/list", sheet.ListSheetsHandler(dbConn))
	mux.HandleFunc("/api/sheet/delete", sheet.DeleteSheetHandler(dbConn))
	mux.HandleFunc("/api/register/open", sheet.OpenRegisterHandler(dbConn, store, masters))
	mux.HandleFunc("/api/query/stock", sheet.StockQueryHandler(dbConn, store, masters))
	mux.HandleFunc("/api/query/sales", sheet.SalesQueryHandler(dbConn, store, masters))

	mux.HandleFunc("/api/session/cell", sheet.CellEditHandler(store))
	mux.HandleFunc("/api/session/scan", sheet.ScanHandler(store))
	mux.HandleFunc("/api/session/input", sheet.InputHandler(store))
	mux.HandleFunc("/api/session/filter", sheet.FilterHandler(store))
	mux.HandleFunc("/api/session/row", sheet.RowHandler(store))
	mux.HandleFunc("/api/session/batchprice", sheet.BatchPriceHandler(store))
	mux.HandleFunc("/api/session/save", sheet.SaveHandler(dbConn, store, masters))
	mux.HandleFunc("/api/session/cancel", sheet.CancelHandler(store))
	mux.HandleFunc("/api/session/close", sheet.CloseHandler(store))

	mux.HandleFunc("/api/config", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			GetConfigHandler()(w, r)
		case http.MethodPost:
			SaveConfigHandler()(w, r)
		default:
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/api/masters/reload", ReloadMastersHandler(dbConn, masters))
	mux.HandleFunc("/api/automation/policy/download", automation.DownloadPolicyHandler(dbConn))
}
