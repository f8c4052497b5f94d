package model

// CargoMaster is one row of the cargo register. Prices and discounts
// are stored scaled by 10000.
type CargoMaster struct {
	HpCode    string `db:"hpcode" json:"hpCode"`
	HpName    string `db:"hpname" json:"hpName"`
	ColorType string `db:"colortype" json:"colorType"`
	SizerType string `db:"sizertype" json:"sizerType"`
	SetPrice  int64  `db:"setprice" json:"setPrice"`
	BuyPrice  int64  `db:"buyprice" json:"buyPrice"`
	RetPrice  int64  `db:"retprice" json:"retPrice"`
	LotPrice  int64  `db:"lotprice" json:"lotPrice"`
	Unit      string `db:"unit" json:"unit"`
	Attr1     string `db:"attr1" json:"attr1"`
	Attr2     string `db:"attr2" json:"attr2"`
	Attr3     string `db:"attr3" json:"attr3"`
	Attr4     string `db:"attr4" json:"attr4"`
	Attr5     string `db:"attr5" json:"attr5"`
	Attr6     string `db:"attr6" json:"attr6"`
	RegDis    int64  `db:"regdis" json:"regDis"`
	Stopped   int64  `db:"stopped" json:"stopped"`
	UpMan     string `db:"upman" json:"upMan"`
	UpTime    int64  `db:"uptime" json:"upTime"`
}

// ColorEntry is one color of a color group, ordered by Ord.
type ColorEntry struct {
	ColorType string `db:"colortype" json:"colorType"`
	Code      string `db:"ccode" json:"code"`
	Name      string `db:"cname" json:"name"`
	Ord       int    `db:"ord" json:"ord"`
}

// SizerEntry is one size of a size group, ordered by Ord. The order
// fixes the size-matrix column a quantity lands in.
type SizerEntry struct {
	SizerType string `db:"sizertype" json:"sizerType"`
	Code      string `db:"scode" json:"code"`
	Name      string `db:"sname" json:"name"`
	Ord       int    `db:"ord" json:"ord"`
}

// Subject is one finance booking subject.
type Subject struct {
	Subject string `db:"subject" json:"subject"`
	Note    string `db:"note" json:"note"`
}

// Trader is a supplier or wholesale customer.
type Trader struct {
	Trader    string `db:"trader" json:"trader"`
	TraderDis int64  `db:"traderdis" json:"traderDis"`
	Linkman   string `db:"linkman" json:"linkman"`
	Phone     string `db:"phone" json:"phone"`
	Stopped   int64  `db:"stopped" json:"stopped"`
}
