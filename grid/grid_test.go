package grid

import "testing"

type fakeCargos map[string]map[string]string

func (f fakeCargos) Exists(cargo string) bool { _, ok := f[cargo]; return ok }

func (f fakeCargos) Value(cargo, attr string) string {
	attrs, ok := f[cargo]
	if !ok {
		return ""
	}
	return attrs[attr]
}

type colorEntry struct{ code, name string }

type fakeColors map[string][]colorEntry

func (f fakeColors) NameByCode(colorType, code string) (string, bool) {
	for _, e := range f[colorType] {
		if e.code == code {
			return e.name, true
		}
	}
	return "", false
}

func (f fakeColors) Contains(colorType, name string) bool {
	for _, e := range f[colorType] {
		if e.name == name {
			return true
		}
	}
	return false
}

func (f fakeColors) First(colorType string) string {
	if len(f[colorType]) == 0 {
		return ""
	}
	return f[colorType][0].name
}

type sizerEntry struct{ code, name string }

type fakeSizers map[string][]sizerEntry

func (f fakeSizers) Names(sizerType string) []string {
	var names []string
	for _, e := range f[sizerType] {
		names = append(names, e.name)
	}
	return names
}

func (f fakeSizers) IndexByCode(sizerType, code string) (int, bool) {
	for i, e := range f[sizerType] {
		if e.code == code {
			return i, true
		}
	}
	return 0, false
}

func (f fakeSizers) IndexByName(sizerType, name string) (int, bool) {
	for i, e := range f[sizerType] {
		if e.name == name {
			return i, true
		}
	}
	return 0, false
}

type fakeSubjects map[string]bool

func (f fakeSubjects) Exists(subject string) bool { return f[subject] }

func testRegistries() Registries {
	return Registries{
		Cargos: fakeCargos{
			"A001": {
				"hpname": "连衣裙", "colortype": "C1", "sizertype": "S1",
				"setprice": "1000000", "retprice": "800000",
				"buyprice": "500000", "lotprice": "600000",
				"unit": "件", "attr1": "春季", "stopped": "0",
			},
			"B002": {
				"hpname": "围巾", "colortype": "", "sizertype": "",
				"setprice": "200000", "retprice": "180000",
				"buyprice": "100000", "lotprice": "150000",
				"unit": "条", "stopped": "0",
			},
		},
		Colors: fakeColors{
			"C1": {{"01", "红"}, {"02", "蓝"}},
		},
		Sizers: fakeSizers{
			"S1": {{"1", "S"}, {"2", "M"}, {"3", "L"}},
		},
		Subjects: fakeSubjects{"运费": true, "货款": true},
	}
}

var detailCols = []string{
	"cargo", "hpname", "color", "sizers", "qty", "price", "discount",
	"actmoney", "dismoney", "setprice", "unit", "hpmark", "rowtime",
}

func testOptions() Options {
	return Options{
		Dots:     Dots{Qty: 0, Price: 2, Discount: 2, Money: 2},
		Operator: "tester",
	}
}

func newTestCargoSheet(t *testing.T, recs [][]any) *Sheet {
	t.Helper()
	s, err := NewCargoSheet("lsd", testOptions(), testRegistries(), []BarcodeRule{
		{Pattern: `(\w{4})(\d{2})(\d)`},
	})
	if err != nil {
		t.Fatalf("NewCargoSheet: %v", err)
	}
	s.SetTrader("张记批发", 0.75)
	if err := s.Load(detailCols, recs); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return s
}

// savedDetailRec is one persisted row: cargo A001 red, 1×S 2×M at
// price 64.00 against setprice 100.00.
func savedDetailRec() []any {
	return []any{
		"A001", "连衣裙", "红", "S\t10000\nM\t20000",
		int64(30000), int64(640000), int64(6400),
		int64(1920000), int64(1080000), int64(1000000),
		"件", "", int64(1700000000000),
	}
}

func cellText(t *testing.T, s *Sheet, row int, field string) string {
	t.Helper()
	ci := s.col(field)
	if ci < 0 {
		t.Fatalf("no column %s", field)
	}
	return s.Rows[row].cell(ci).Text
}

func setCell(t *testing.T, s *Sheet, row int, field, text string) {
	t.Helper()
	ci := s.col(field)
	if ci < 0 {
		t.Fatalf("no column %s", field)
	}
	if err := s.SetCellText(row, ci, text); err != nil {
		t.Fatalf("SetCellText %s=%q: %v", field, text, err)
	}
}
