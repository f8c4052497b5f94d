package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// stockQuery nets purchases against wholesale and retail issues per
// cargo and color. Each branch keeps its sizers blob; outgoing blobs
// are prefixed with the negation mark (char 12) and the group_concat
// separator (char 13) splits the per-sheet records, which the grid
// folds into one size breakdown on load. Transfers (dbd) move goods
// between shops and do not change total stock.
const stockQuery = `
SELECT d.cargo, c.hpname, d.color,
       group_concat(d.sizers, char(13)) AS sizers,
       SUM(d.qty) AS qty,
       c.buyprice, c.setprice
  FROM (
        SELECT cargo, color, sizers, qty FROM cgddtl WHERE sizers != ''
        UNION ALL
        SELECT cargo, color, char(12) || sizers, -qty FROM pfddtl WHERE sizers != ''
        UNION ALL
        SELECT cargo, color, char(12) || sizers, -qty FROM lsddtl WHERE sizers != ''
       ) d
  LEFT JOIN cargo c ON c.hpcode = d.cargo
 GROUP BY d.cargo, d.color
 ORDER BY d.cargo, d.color`

// FetchStockQuery returns the aggregated stock position for a query
// grid.
func FetchStockQuery(db *sqlx.DB) ([]string, [][]any, error) {
	return FetchAll(db, stockQuery)
}

// salesQuery totals a detail table per cargo and color inside a time
// window, money at actual prices.
const salesQuery = `
SELECT d.cargo, c.hpname, d.color,
       group_concat(d.sizers, char(13)) AS sizers,
       SUM(d.qty) AS qty,
       SUM(d.actmoney) AS actmoney,
       c.buyprice
  FROM %sdtl d
  JOIN %s h ON h.sheetid = d.parentid
  LEFT JOIN cargo c ON c.hpcode = d.cargo
 WHERE h.uptime BETWEEN ? AND ? AND d.sizers != ''
 GROUP BY d.cargo, d.color
 ORDER BY d.cargo, d.color`

// FetchSalesQuery aggregates one sheet family over a time window.
func FetchSalesQuery(db *sqlx.DB, table string, fromTime, toTime int64) ([]string, [][]any, error) {
	if !ValidSheetTable(table) || table == "szd" {
		return nil, nil, fmt.Errorf("not a cargo sheet table: %s", table)
	}
	return FetchAll(db, fmt.Sprintf(salesQuery, table, table), fromTime, toTime)
}
