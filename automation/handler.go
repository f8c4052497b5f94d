package automation

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/jmoiron/sqlx"

	"tally/config"
	"tally/loader"
)

func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

// DownloadPolicyHandler pulls the portal's policy CSV and replaces the
// pricing policy table with it.
func DownloadPolicyHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSONError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

		cfg := config.GetConfig()
		if cfg.PortalURL == "" || cfg.PortalUserID == "" || cfg.PortalPassword == "" {
			writeJSONError(w, "portal URL or credentials not configured", http.StatusBadRequest)
			return
		}

		saveDir := cfg.MasterFolderPath
		if saveDir == "" {
			saveDir = os.TempDir()
			log.Printf("No master folder configured, using %s", saveDir)
		}

		log.Println("Starting portal policy download...")
		filePath, err := DownloadPolicyCSV(cfg.PortalURL, cfg.PortalUserID, cfg.PortalPassword, saveDir)
		if err != nil {
			log.Printf("Automation error: %v", err)
			writeJSONError(w, "policy download failed: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if filePath == NoData {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{
				"status":  "no_data",
				"message": "portal has no policy export ready",
			})
			return
		}

		n, err := loader.LoadPolicyCSV(db, filePath)
		if err != nil {
			writeJSONError(w, "policy import failed: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status":   "success",
			"message":  fmt.Sprintf("imported %d policies", n),
			"filePath": filePath,
		})
	}
}
