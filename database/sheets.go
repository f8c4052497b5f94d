package database

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"tally/grid"
	"tally/model"
)

// The sheet tables: purchase (cgd), wholesale (pfd), retail (lsd),
// transfer (dbd) and finance (szd). Each pairs with a <table>dtl detail
// table keyed by parentid.
var sheetTables = map[string]bool{
	"cgd": true,
	"pfd": true,
	"lsd": true,
	"dbd": true,
	"szd": true,
}

func ValidSheetTable(table string) bool { return sheetTables[table] }

// detailSelect is the canonical detail column list per sheet family.
// The lookup columns (hpname, setprice, unit) are not stored on the
// detail rows; they render from the cargo master.
func detailSelect(table string) string {
	if table == "szd" {
		return `SELECT subject, income, expense, rowmark, rowtime
			FROM szddtl WHERE parentid = ? ORDER BY rowtime`
	}
	return fmt.Sprintf(`SELECT d.cargo, c.hpname, d.color, d.sizers, d.qty, d.price,
			d.discount, d.actmoney, d.dismoney, c.setprice, c.unit, d.hpmark, d.rowtime
		FROM %sdtl d
		LEFT JOIN cargo c ON c.hpcode = d.cargo
		WHERE d.parentid = ? ORDER BY d.rowtime`, table)
}

// FetchSheetDetail loads the detail rows of a saved sheet, or the empty
// column set for sheetID 0.
func FetchSheetDetail(db *sqlx.DB, table string, sheetID int64) ([]string, [][]any, error) {
	if !ValidSheetTable(table) {
		return nil, nil, fmt.Errorf("unknown sheet table: %s", table)
	}
	return FetchAll(db, detailSelect(table), sheetID)
}

// FetchRegister loads a master table for a register grid.
func FetchRegister(db *sqlx.DB, table string) ([]string, [][]any, error) {
	switch table {
	case "cargo":
		return FetchAll(db, `SELECT hpcode, hpname, colortype, sizertype,
				setprice, buyprice, retprice, lotprice, unit,
				attr1, attr2, attr3, attr4, attr5, attr6,
				regdis, stopped, upman, uptime
			FROM cargo ORDER BY hpcode`)
	case "subject":
		return FetchAll(db, `SELECT subject, note FROM subject ORDER BY subject`)
	default:
		return nil, nil, fmt.Errorf("unknown register table: %s", table)
	}
}

func GetSheetHeader(db *sqlx.DB, table string, sheetID int64) (model.SheetHeader, error) {
	var h model.SheetHeader
	if !ValidSheetTable(table) {
		return h, fmt.Errorf("unknown sheet table: %s", table)
	}
	query := fmt.Sprintf(`SELECT sheetid, trader, traderdis, shop, staff, remark,
			sumqty, summoney, upman, uptime
		FROM %s WHERE sheetid = ?`, table)
	if err := db.Get(&h, query, sheetID); err != nil {
		return h, fmt.Errorf("failed to get %s header %d: %w", table, sheetID, err)
	}
	return h, nil
}

func ListSheetHeaders(db *sqlx.DB, table string, fromTime, toTime int64) ([]model.SheetHeader, error) {
	if !ValidSheetTable(table) {
		return nil, fmt.Errorf("unknown sheet table: %s", table)
	}
	var hs []model.SheetHeader
	query := fmt.Sprintf(`SELECT sheetid, trader, traderdis, shop, staff, remark,
			sumqty, summoney, upman, uptime
		FROM %s WHERE uptime BETWEEN ? AND ? ORDER BY sheetid DESC`, table)
	if err := db.Select(&hs, query, fromTime, toTime); err != nil {
		return nil, fmt.Errorf("failed to list %s headers: %w", table, err)
	}
	return hs, nil
}

func nextSheetID(tx *sqlx.Tx, table string) (int64, error) {
	var id int64
	if err := tx.Get(&id, fmt.Sprintf("SELECT COALESCE(MAX(sheetid), 0) + 1 FROM %s", table)); err != nil {
		return 0, fmt.Errorf("failed to allocate %s sheet id: %w", table, err)
	}
	return id, nil
}

// ExecSheetSave persists one edit session in a single transaction: the
// header is inserted or updated, then the grid-generated detail
// statements run with the placeholder parentid resolved. Returns the
// header id.
func ExecSheetSave(db *sqlx.DB, table string, header model.SheetHeader, detailSQL []string) (int64, error) {
	if !ValidSheetTable(table) {
		return 0, fmt.Errorf("unknown sheet table: %s", table)
	}
	tx, err := db.Beginx()
	if err != nil {
		return 0, fmt.Errorf("failed to begin save transaction: %w", err)
	}
	defer tx.Rollback()

	header.UpTime = time.Now().Unix()
	if header.SheetID == 0 {
		header.SheetID, err = nextSheetID(tx, table)
		if err != nil {
			return 0, err
		}
		query := fmt.Sprintf(`INSERT INTO %s (sheetid, trader, traderdis, shop, staff,
				remark, sumqty, summoney, upman, uptime)
			VALUES (:sheetid, :trader, :traderdis, :shop, :staff,
				:remark, :sumqty, :summoney, :upman, :uptime)`, table)
		if _, err := tx.NamedExec(query, header); err != nil {
			return 0, fmt.Errorf("failed to insert %s header: %w", table, err)
		}
	} else {
		query := fmt.Sprintf(`UPDATE %s SET trader = :trader, traderdis = :traderdis,
				shop = :shop, staff = :staff, remark = :remark,
				sumqty = :sumqty, summoney = :summoney,
				upman = :upman, uptime = :uptime
			WHERE sheetid = :sheetid`, table)
		if _, err := tx.NamedExec(query, header); err != nil {
			return 0, fmt.Errorf("failed to update %s header: %w", table, err)
		}
	}

	parentID := strconv.FormatInt(header.SheetID, 10)
	for _, stmt := range detailSQL {
		stmt = strings.ReplaceAll(stmt, grid.ParentIDPlaceholder, parentID)
		if _, err := tx.Exec(stmt); err != nil {
			return 0, fmt.Errorf("failed to exec detail statement: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit sheet save: %w", err)
	}
	return header.SheetID, nil
}

// ExecRegisterSave persists a register edit session in one transaction.
func ExecRegisterSave(db *sqlx.DB, stmts []string) error {
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin register save: %w", err)
	}
	defer tx.Rollback()
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("failed to exec register statement: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit register save: %w", err)
	}
	return nil
}

// DeleteSheet removes a header with its detail rows.
func DeleteSheet(db *sqlx.DB, table string, sheetID int64) error {
	if !ValidSheetTable(table) {
		return fmt.Errorf("unknown sheet table: %s", table)
	}
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin delete transaction: %w", err)
	}
	defer tx.Rollback()
	if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %sdtl WHERE parentid = ?", table), sheetID); err != nil {
		return fmt.Errorf("failed to delete %s details: %w", table, err)
	}
	if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE sheetid = ?", table), sheetID); err != nil {
		return fmt.Errorf("failed to delete %s header: %w", table, err)
	}
	return tx.Commit()
}
