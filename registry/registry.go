// Package registry holds in-memory snapshots of the master tables the
// grid engine validates and prefills against.
package registry

import (
	"fmt"
	"log"
	"strconv"
	"sync"

	"github.com/jmoiron/sqlx"

	"tally/model"
)

// Cargos indexes the cargo register by code.
type Cargos struct {
	byCode map[string]model.CargoMaster
}

func NewCargos(rows []model.CargoMaster) *Cargos {
	c := &Cargos{byCode: make(map[string]model.CargoMaster, len(rows))}
	for _, r := range rows {
		c.byCode[r.HpCode] = r
	}
	return c
}

func (c *Cargos) Exists(cargo string) bool {
	_, ok := c.byCode[cargo]
	return ok
}

// Value returns a cargo attribute as its storage text. Scaled prices
// come back as their integer text.
func (c *Cargos) Value(cargo, attr string) string {
	m, ok := c.byCode[cargo]
	if !ok {
		return ""
	}
	switch attr {
	case "hpname":
		return m.HpName
	case "colortype":
		return m.ColorType
	case "sizertype":
		return m.SizerType
	case "setprice":
		return strconv.FormatInt(m.SetPrice, 10)
	case "buyprice":
		return strconv.FormatInt(m.BuyPrice, 10)
	case "retprice":
		return strconv.FormatInt(m.RetPrice, 10)
	case "lotprice":
		return strconv.FormatInt(m.LotPrice, 10)
	case "unit":
		return m.Unit
	case "regdis":
		return strconv.FormatInt(m.RegDis, 10)
	case "stopped":
		return strconv.FormatInt(m.Stopped, 10)
	case "attr1":
		return m.Attr1
	case "attr2":
		return m.Attr2
	case "attr3":
		return m.Attr3
	case "attr4":
		return m.Attr4
	case "attr5":
		return m.Attr5
	case "attr6":
		return m.Attr6
	default:
		return ""
	}
}

func (c *Cargos) Len() int { return len(c.byCode) }

// Colors indexes the color lists by group, keeping registered order.
type Colors struct {
	byType map[string][]model.ColorEntry
}

func NewColors(rows []model.ColorEntry) *Colors {
	c := &Colors{byType: map[string][]model.ColorEntry{}}
	for _, r := range rows {
		c.byType[r.ColorType] = append(c.byType[r.ColorType], r)
	}
	return c
}

func (c *Colors) NameByCode(colorType, code string) (string, bool) {
	for _, e := range c.byType[colorType] {
		if e.Code == code {
			return e.Name, true
		}
	}
	return "", false
}

func (c *Colors) Contains(colorType, name string) bool {
	for _, e := range c.byType[colorType] {
		if e.Name == name {
			return true
		}
	}
	return false
}

func (c *Colors) First(colorType string) string {
	list := c.byType[colorType]
	if len(list) == 0 {
		return ""
	}
	return list[0].Name
}

// Sizers indexes the size lists by group. The slice position of a size
// is the size-matrix column it books into.
type Sizers struct {
	byType map[string][]model.SizerEntry
}

func NewSizers(rows []model.SizerEntry) *Sizers {
	s := &Sizers{byType: map[string][]model.SizerEntry{}}
	for _, r := range rows {
		s.byType[r.SizerType] = append(s.byType[r.SizerType], r)
	}
	return s
}

func (s *Sizers) Names(sizerType string) []string {
	list := s.byType[sizerType]
	names := make([]string, 0, len(list))
	for _, e := range list {
		names = append(names, e.Name)
	}
	return names
}

func (s *Sizers) IndexByCode(sizerType, code string) (int, bool) {
	for i, e := range s.byType[sizerType] {
		if e.Code == code {
			return i, true
		}
	}
	return 0, false
}

func (s *Sizers) IndexByName(sizerType, name string) (int, bool) {
	for i, e := range s.byType[sizerType] {
		if e.Name == name {
			return i, true
		}
	}
	return 0, false
}

// Subjects is the finance subject list.
type Subjects struct {
	set map[string]struct{}
}

func NewSubjects(rows []model.Subject) *Subjects {
	s := &Subjects{set: make(map[string]struct{}, len(rows))}
	for _, r := range rows {
		s.set[r.Subject] = struct{}{}
	}
	return s
}

func (s *Subjects) Exists(subject string) bool {
	_, ok := s.set[subject]
	return ok
}

// Set bundles the loaded snapshots.
type Set struct {
	Cargos   *Cargos
	Colors   *Colors
	Sizers   *Sizers
	Subjects *Subjects
}

// Load reads every master table into memory. Sheets opened afterwards
// validate against this snapshot until the next Load.
func Load(db *sqlx.DB) (*Set, error) {
	var cargos []model.CargoMaster
	if err := db.Select(&cargos, `SELECT hpcode, hpname, colortype, sizertype,
			setprice, buyprice, retprice, lotprice, unit,
			attr1, attr2, attr3, attr4, attr5, attr6,
			regdis, stopped, upman, uptime
		FROM cargo`); err != nil {
		return nil, fmt.Errorf("failed to load cargo master: %w", err)
	}

	var colors []model.ColorEntry
	if err := db.Select(&colors, `SELECT colortype, ccode, cname, ord
		FROM colorlist ORDER BY colortype, ord`); err != nil {
		return nil, fmt.Errorf("failed to load color list: %w", err)
	}

	var sizers []model.SizerEntry
	if err := db.Select(&sizers, `SELECT sizertype, scode, sname, ord
		FROM sizerlist ORDER BY sizertype, ord`); err != nil {
		return nil, fmt.Errorf("failed to load sizer list: %w", err)
	}

	var subjects []model.Subject
	if err := db.Select(&subjects, `SELECT subject, note FROM subject`); err != nil {
		return nil, fmt.Errorf("failed to load subjects: %w", err)
	}

	log.Printf("Registry loaded: %d cargos, %d colors, %d sizers, %d subjects",
		len(cargos), len(colors), len(sizers), len(subjects))

	return &Set{
		Cargos:   NewCargos(cargos),
		Colors:   NewColors(colors),
		Sizers:   NewSizers(sizers),
		Subjects: NewSubjects(subjects),
	}, nil
}

// Holder swaps master snapshots atomically so register saves can
// publish a fresh snapshot while open sheets keep the one they were
// opened against.
type Holder struct {
	mu  sync.RWMutex
	set *Set
}

func NewHolder(set *Set) *Holder { return &Holder{set: set} }

func (h *Holder) Current() *Set {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.set
}

func (h *Holder) Swap(set *Set) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.set = set
}

// Reload reads the masters again and publishes them.
func (h *Holder) Reload(db *sqlx.DB) error {
	set, err := Load(db)
	if err != nil {
		return err
	}
	h.Swap(set)
	return nil
}

