package database

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"tally/grid"
	"tally/model"
)

// GetActivePolicies loads the pricing policies valid today, strongest
// level first, in the shape the grid's prefill pricing consumes.
func GetActivePolicies(db *sqlx.DB) ([]grid.PricingPolicy, error) {
	today := time.Now().Unix()
	var rows []model.PolicyRow
	err := db.Select(&rows, `SELECT traderexp, cargoexp, policydis, uselevel, startdate, enddate
		FROM lotpolicy
		WHERE (startdate = 0 OR startdate <= ?) AND (enddate = 0 OR enddate >= ?)
		ORDER BY uselevel DESC`, today, today)
	if err != nil {
		return nil, fmt.Errorf("failed to load pricing policies: %w", err)
	}
	policies := make([]grid.PricingPolicy, 0, len(rows))
	for _, r := range rows {
		policies = append(policies, grid.PricingPolicy{
			TraderExp: r.TraderExp,
			CargoExp:  r.CargoExp,
			Discount:  float64(r.PolicyDis) / 10000,
			Level:     r.UseLevel,
		})
	}
	return policies, nil
}

// GetTrader resolves one trader with its standing discount.
func GetTrader(db *sqlx.DB, name string) (model.Trader, error) {
	var t model.Trader
	err := db.Get(&t, `SELECT trader, traderdis, linkman, phone, stopped
		FROM trader WHERE trader = ?`, name)
	if err != nil {
		return t, fmt.Errorf("failed to get trader %s: %w", name, err)
	}
	return t, nil
}
