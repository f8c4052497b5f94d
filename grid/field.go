package grid

import "strings"

// Flag describes how a column stores, renders and validates its cells.
type Flag uint32

const (
	FlagText Flag = 1 << iota
	FlagInt
	FlagNumericOnly // scaled fixed-point, always together with FlagInt
	FlagBool
	FlagDate
	FlagDateTime
	FlagLookup
	FlagReadOnly
	FlagHideSys
	FlagKey
	FlagSizeUnit
	FlagAggSum
	FlagAggCount
	FlagBlankZero

	FlagNumeric = FlagNumericOnly | FlagInt
)

type FilterKind int

const (
	FilterNone FilterKind = iota
	FilterEqual
	FilterNotEqual
	FilterContain
)

// Field is one column of a Sheet.
type Field struct {
	Name  string
	Title string
	Flags Flag
	// Dots is the fractional digit count for numeric fields and the
	// declared max byte length for text fields.
	Dots  int
	Width int

	filterKind   FilterKind
	filterValues []string

	footerText string
	countSet   map[string]struct{}
	sumValue   int64
}

func (f *Field) Is(flag Flag) bool { return f.Flags&flag == flag }

func (f *Field) Any(flag Flag) bool { return f.Flags&flag != 0 }

func (f *Field) FilterKind() FilterKind { return f.filterKind }

func (f *Field) FilterValues() []string { return append([]string(nil), f.filterValues...) }

// FooterText is the aggregation line under the column: a count for
// FlagAggCount fields, a formatted sum for FlagAggSum fields.
func (f *Field) FooterText() string { return f.footerText }

func (f *Field) clearFilter() {
	f.filterKind = FilterNone
	f.filterValues = nil
}

// Dots holds the configured decimal precisions.
type Dots struct {
	Qty      int
	Price    int
	Discount int
	Money    int
}

// applyDots assigns the precision of a numeric field from its name.
func applyDots(f *Field, d Dots) {
	if !f.Is(FlagNumeric) || f.Is(FlagSizeUnit) {
		return
	}
	switch {
	case strings.Contains(f.Name, "qty"):
		f.Dots = d.Qty
	case strings.Contains(f.Name, "price"):
		f.Dots = d.Price
	case strings.Contains(f.Name, "dis") && !strings.Contains(f.Name, "money"):
		f.Dots = d.Discount
	case strings.Contains(f.Name, "money") || strings.Contains(f.Name, "act") || strings.Contains(f.Name, "sum"):
		f.Dots = d.Money
	}
}
