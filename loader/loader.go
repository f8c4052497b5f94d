package loader

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"

	"tally/parsers"
)

// InitDatabase applies the schema and refreshes the master tables from
// the legacy CSV exports when they are present.
func InitDatabase(db *sqlx.DB, masterDir string) error {
	log.Println("Applying database schema...")
	if err := applySchema(db); err != nil {
		return fmt.Errorf("failed to apply schema.sql: %w", err)
	}
	log.Println("Schema applied successfully.")

	return LoadMasters(db, masterDir)
}

func applySchema(db *sqlx.DB) error {
	schemaBytes, err := os.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("could not read schema.sql: %w", err)
	}
	if _, err := db.Exec(string(schemaBytes)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// LoadMasters imports CARGO/COLOR/SIZER/POLICY CSV exports from
// masterDir. A missing file is skipped with a warning so a fresh
// install still starts.
func LoadMasters(db *sqlx.DB, masterDir string) error {
	loads := []struct {
		file string
		load func(*sqlx.DB, string) (int, error)
	}{
		{"CARGO.CSV", loadCargoCSV},
		{"COLOR.CSV", loadColorCSV},
		{"SIZER.CSV", loadSizerCSV},
		{"POLICY.CSV", LoadPolicyCSV},
	}
	for _, l := range loads {
		path := filepath.Join(masterDir, l.file)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			log.Printf("WARN: %s not found, skipping.", path)
			continue
		}
		n, err := l.load(db, path)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
		log.Printf("Inserted or replaced %d rows from %s", n, path)
	}
	return nil
}

func loadCargoCSV(db *sqlx.DB, path string) (count int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("could not open %s: %w", path, err)
	}
	defer f.Close()

	cargos, err := parsers.ParseCargoCSV(f)
	if err != nil {
		return 0, err
	}

	tx, err := db.Beginx()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	for _, c := range cargos {
		_, err = tx.NamedExec(`INSERT OR REPLACE INTO cargo
			(hpcode, hpname, colortype, sizertype, setprice, buyprice, retprice, lotprice,
			 unit, attr1, attr2, attr3, attr4, attr5, attr6, regdis, stopped, upman, uptime)
			VALUES (:hpcode, :hpname, :colortype, :sizertype, :setprice, :buyprice, :retprice, :lotprice,
			 :unit, :attr1, :attr2, :attr3, :attr4, :attr5, :attr6, :regdis, :stopped, :upman, :uptime)`, c)
		if err != nil {
			return count, fmt.Errorf("failed to insert cargo %s: %w", c.HpCode, err)
		}
		count++
	}
	return count, nil
}

func loadColorCSV(db *sqlx.DB, path string) (count int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("could not open %s: %w", path, err)
	}
	defer f.Close()

	colors, err := parsers.ParseColorCSV(f)
	if err != nil {
		return 0, err
	}

	tx, err := db.Beginx()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	for _, c := range colors {
		_, err = tx.NamedExec(`INSERT OR REPLACE INTO colorlist (colortype, ccode, cname, ord)
			VALUES (:colortype, :ccode, :cname, :ord)`, c)
		if err != nil {
			return count, fmt.Errorf("failed to insert color %s/%s: %w", c.ColorType, c.Name, err)
		}
		count++
	}
	return count, nil
}

func loadSizerCSV(db *sqlx.DB, path string) (count int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("could not open %s: %w", path, err)
	}
	defer f.Close()

	sizers, err := parsers.ParseSizerCSV(f)
	if err != nil {
		return 0, err
	}

	tx, err := db.Beginx()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	for _, s := range sizers {
		_, err = tx.NamedExec(`INSERT OR REPLACE INTO sizerlist (sizertype, scode, sname, ord)
			VALUES (:sizertype, :scode, :sname, :ord)`, s)
		if err != nil {
			return count, fmt.Errorf("failed to insert sizer %s/%s: %w", s.SizerType, s.Name, err)
		}
		count++
	}
	return count, nil
}

// LoadPolicyCSV replaces the pricing policy table from a portal export.
// The automation download calls this after pulling a fresh file.
func LoadPolicyCSV(db *sqlx.DB, path string) (count int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("could not open %s: %w", path, err)
	}
	defer f.Close()

	policies, err := parsers.ParsePolicyCSV(f)
	if err != nil {
		return 0, err
	}

	tx, err := db.Beginx()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	if _, err = tx.Exec("DELETE FROM lotpolicy"); err != nil {
		return 0, fmt.Errorf("failed to clear lotpolicy: %w", err)
	}
	for _, p := range policies {
		_, err = tx.NamedExec(`INSERT INTO lotpolicy (traderexp, cargoexp, policydis, uselevel, startdate, enddate)
			VALUES (:traderexp, :cargoexp, :policydis, :uselevel, :startdate, :enddate)`, p)
		if err != nil {
			return count, fmt.Errorf("failed to insert policy: %w", err)
		}
		count++
	}
	return count, nil
}
