package grid

import (
	"strconv"
	"strings"
)

// applyFilters recomputes row visibility (when checkFilter) and the
// footer aggregates in one pass.
func (s *Sheet) applyFilters(checkFilter bool) {
	activeFilters := 0
	for _, f := range s.Cols {
		f.sumValue = 0
		if f.Is(FlagAggCount) {
			f.countSet = map[string]struct{}{}
		}
		// the contains search narrows rows without counting as an
		// active filter
		if checkFilter && (f.filterKind == FilterEqual || f.filterKind == FilterNotEqual) {
			activeFilters++
		}
	}

	visible := 0
	for _, row := range s.Rows {
		show := true
		if checkFilter {
			for ci, f := range s.Cols {
				switch f.filterKind {
				case FilterEqual:
					if !containsString(f.filterValues, row.cell(ci).Text) {
						show = false
					}
				case FilterNotEqual:
					if containsString(f.filterValues, row.cell(ci).Text) {
						show = false
					}
				case FilterContain:
					if !strings.Contains(row.SearchKey, strings.Join(f.filterValues, "")) {
						show = false
					}
				}
				if !show {
					break
				}
			}
			row.Hidden = !show
		} else {
			show = !row.Hidden
		}
		if !show {
			continue
		}
		visible++
		if !s.ForQuery && row.State == EditDeleted {
			continue
		}
		for ci, f := range s.Cols {
			text := row.cell(ci).Text
			if f.Is(FlagAggCount) && text != "" {
				f.countSet[text] = struct{}{}
			}
			if f.Is(FlagAggSum) {
				if f.Is(FlagNumeric) {
					f.sumValue += numFromText(text)
				} else if iv, err := strconv.ParseInt(text, 10, 64); err == nil {
					f.sumValue += iv
				}
			}
		}
	}
	s.visibleRows = visible

	for _, f := range s.Cols {
		switch {
		case f.Is(FlagAggCount):
			f.footerText = strconv.Itoa(len(f.countSet))
		case f.Is(FlagAggSum):
			if f.Is(FlagNumeric) {
				f.footerText = NumForRead(f.sumValue, f.Dots)
			} else {
				f.footerText = strconv.FormatInt(f.sumValue, 10)
			}
		default:
			f.footerText = ""
		}
	}

	if checkFilter {
		was := s.filtering
		s.filtering = activeFilters > 0
		if was != s.filtering && s.OnFilterState != nil {
			s.OnFilterState(s.filtering)
		}
	}
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// RefreshAggregates recomputes the footer without touching visibility.
func (s *Sheet) RefreshAggregates() { s.applyFilters(false) }

// ApplyFilters reevaluates every column filter against every row.
func (s *Sheet) ApplyFilters() { s.applyFilters(true) }

// FilterEqual keeps rows whose cell equals one of the picked values.
// Picking again on the same column widens the value set.
func (s *Sheet) FilterEqual(col int, values ...string) {
	f := s.Cols[col]
	if f.filterKind != FilterEqual {
		f.clearFilter()
		f.filterKind = FilterEqual
	}
	f.filterValues = append(f.filterValues, values...)
	s.applyFilters(true)
}

// FilterOut hides rows whose cell equals one of the values. Repeated
// calls accumulate.
func (s *Sheet) FilterOut(col int, values ...string) {
	f := s.Cols[col]
	if f.filterKind != FilterNotEqual {
		f.clearFilter()
		f.filterKind = FilterNotEqual
	}
	f.filterValues = append(f.filterValues, values...)
	s.applyFilters(true)
}

// FilterContain keeps rows whose search key contains the needle. Only
// the key column carries a search key.
func (s *Sheet) FilterContain(col int, needle string) {
	f := s.Cols[col]
	if !f.Is(FlagKey) {
		return
	}
	f.clearFilter()
	if s.SearchKeyFunc != nil {
		needle = s.SearchKeyFunc(needle)
	}
	if needle != "" {
		f.filterKind = FilterContain
		f.filterValues = []string{needle}
	}
	s.applyFilters(true)
}

// ClearFilter drops one column's filter.
func (s *Sheet) ClearFilter(col int) {
	s.Cols[col].clearFilter()
	s.applyFilters(true)
}

// ClearAllFilters drops every filter.
func (s *Sheet) ClearAllFilters() {
	for _, f := range s.Cols {
		f.clearFilter()
	}
	s.applyFilters(true)
}

// ColSumByFieldName sums a numeric column over non-deleted rows,
// ignoring visibility.
func (s *Sheet) ColSumByFieldName(name string) float64 {
	ci := s.col(name)
	if ci < 0 {
		return 0
	}
	var sum int64
	for _, row := range s.Rows {
		if !s.ForQuery && row.State == EditDeleted {
			continue
		}
		sum += numFromText(row.cell(ci).Text)
	}
	return float64(sum) / numScale
}
