package grid

// The sheet consults master data through these narrow interfaces so the
// engine itself never touches the database.

// CargoRegistry answers attribute lookups against the cargo master.
type CargoRegistry interface {
	Exists(cargo string) bool
	// Value returns the named attribute of a cargo as its storage text
	// (prices come back as scaled integers). Unknown cargo or attribute
	// returns "".
	Value(cargo, attr string) string
}

// ColorRegistry answers color lookups per color group.
type ColorRegistry interface {
	// NameByCode resolves a scanned color code inside a group.
	NameByCode(colorType, code string) (string, bool)
	// Contains reports whether the group carries the color name.
	Contains(colorType, name string) bool
	// First returns the first color name of a group, "" when empty.
	First(colorType string) string
}

// SizerRegistry answers size lookups per size group.
type SizerRegistry interface {
	// Names lists the group's size names in registered order.
	Names(sizerType string) []string
	// IndexByCode resolves a scanned size code to its column index.
	IndexByCode(sizerType, code string) (int, bool)
	// IndexByName resolves a size name to its column index.
	IndexByName(sizerType, name string) (int, bool)
}

// SubjectRegistry answers subject lookups for finance sheets.
type SubjectRegistry interface {
	Exists(subject string) bool
}

// PricingPolicy is one wholesale discount rule. Rows arrive sorted by
// descending Level; the first match wins.
type PricingPolicy struct {
	TraderExp string
	CargoExp  string
	Discount  float64
	Level     int
}

// Registries bundles the master snapshots a sheet edits against.
type Registries struct {
	Cargos   CargoRegistry
	Colors   ColorRegistry
	Sizers   SizerRegistry
	Subjects SubjectRegistry
	Policies []PricingPolicy
}
