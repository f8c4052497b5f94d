package grid

import "fmt"

// fieldDef is the catalog entry a Field is stamped from.
type fieldDef struct {
	title string
	flags Flag
	dots  int
	width int
}

// Field catalog. Dots of numeric fields are placeholders here and get
// overwritten from config by applyDots.
var fieldDefs = map[string]fieldDef{
	"cargo":     {"货号", FlagText | FlagKey | FlagAggCount, 18, 110},
	"hpcode":    {"货号", FlagText | FlagKey, 18, 110},
	"hpname":    {"品名", FlagText | FlagReadOnly | FlagLookup, 30, 140},
	"color":     {"颜色", FlagText | FlagAggCount, 10, 70},
	"sizers":    {"尺码串", FlagText | FlagHideSys, 2000, 0},
	"qty":       {"数量", FlagNumeric | FlagAggSum | FlagReadOnly, 0, 60},
	"price":     {"单价", FlagNumeric, 2, 70},
	"discount":  {"折扣", FlagNumeric, 2, 55},
	"actmoney":  {"金额", FlagNumeric | FlagAggSum, 2, 85},
	"dismoney":  {"让利", FlagNumeric | FlagAggSum | FlagReadOnly, 2, 85},
	"setprice":  {"牌价", FlagNumeric | FlagReadOnly | FlagLookup, 2, 70},
	"unit":      {"单位", FlagText | FlagReadOnly | FlagLookup, 8, 50},
	"hpmark":    {"标记", FlagText, 20, 80},
	"rowmark":   {"备注", FlagText, 100, 120},
	"rowtime":   {"行时", FlagDateTime | FlagHideSys, 0, 0},
	"subject":   {"科目", FlagText | FlagKey | FlagAggCount, 20, 110},
	"income":    {"收入", FlagNumeric | FlagAggSum, 2, 90},
	"expense":   {"支出", FlagNumeric | FlagAggSum, 2, 90},
	"colortype": {"颜色组", FlagText, 10, 70},
	"sizertype": {"尺码组", FlagText, 10, 70},
	"buyprice":  {"进价", FlagNumeric, 2, 70},
	"retprice":  {"零售价", FlagNumeric, 2, 70},
	"lotprice":  {"批发价", FlagNumeric, 2, 70},
	"regdis":    {"登记折", FlagNumeric, 2, 55},
	"stopped":   {"停用", FlagBool, 0, 45},
	"upman":     {"录入人", FlagText | FlagReadOnly, 20, 70},
	"uptime":    {"录入时间", FlagDate | FlagReadOnly, 0, 90},
	"attr1":     {"属性1", FlagText, 20, 70},
	"attr2":     {"属性2", FlagText, 20, 70},
	"attr3":     {"属性3", FlagText, 20, 70},
	"attr4":     {"属性4", FlagText, 20, 70},
	"attr5":     {"属性5", FlagText, 20, 70},
	"attr6":     {"属性6", FlagText, 20, 70},
	"calcmoney": {"应收额", FlagNumeric | FlagAggSum | FlagReadOnly, 2, 85},
	"buymargin": {"毛利", FlagNumeric | FlagAggSum | FlagReadOnly, 2, 85},
}

// NewField builds a Field from the catalog. Unknown names fall back to
// a plain text column titled by the name itself, so ad hoc query
// columns still load.
func NewField(name string, d Dots) *Field {
	f := &Field{Name: name}
	if def, ok := fieldDefs[name]; ok {
		f.Title = def.title
		f.Flags = def.flags
		f.Dots = def.dots
		f.Width = def.width
	} else {
		f.Title = name
		f.Flags = FlagText
		f.Dots = 50
		f.Width = 90
	}
	applyDots(f, d)
	return f
}

// newSizeField builds one dynamic size-matrix column.
func newSizeField(ord int) *Field {
	return &Field{
		Name:  fmt.Sprintf("sz%d", ord),
		Title: "*",
		Flags: FlagNumeric | FlagAggSum | FlagSizeUnit | FlagBlankZero,
		Dots:  0,
		Width: 42,
	}
}
