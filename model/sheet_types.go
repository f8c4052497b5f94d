package model

// SheetHeader is the header row a detail sheet hangs off. SumQty and
// SumMoney are denormalized from the detail rows at save time.
type SheetHeader struct {
	SheetID   int64  `db:"sheetid" json:"sheetId"`
	Trader    string `db:"trader" json:"trader"`
	TraderDis int64  `db:"traderdis" json:"traderDis"`
	Shop      string `db:"shop" json:"shop"`
	Staff     string `db:"staff" json:"staff"`
	Remark    string `db:"remark" json:"remark"`
	SumQty    int64  `db:"sumqty" json:"sumQty"`
	SumMoney  int64  `db:"summoney" json:"sumMoney"`
	UpMan     string `db:"upman" json:"upMan"`
	UpTime    int64  `db:"uptime" json:"upTime"`
}

// PolicyRow is one wholesale pricing policy. TraderExp and CargoExp are
// anchored regular expressions; PolicyDis is the scaled discount.
// Higher UseLevel wins.
type PolicyRow struct {
	TraderExp string `db:"traderexp" json:"traderExp"`
	CargoExp  string `db:"cargoexp" json:"cargoExp"`
	PolicyDis int64  `db:"policydis" json:"policyDis"`
	UseLevel  int    `db:"uselevel" json:"useLevel"`
	StartDate int64  `db:"startdate" json:"startDate"`
	EndDate   int64  `db:"enddate" json:"endDate"`
}
