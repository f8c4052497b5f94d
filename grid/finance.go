package grid

import "math"

// CheckBalance reports whether the finance sheet's income and expense
// columns settle against each other.
func (s *Sheet) CheckBalance() bool {
	return math.Abs(s.ColSumByFieldName("income")-s.ColSumByFieldName("expense")) < 0.001
}
