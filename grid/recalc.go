package grid

import (
	"math"
	"strconv"
)

// EditedField tells RecalcRow which money field the operator just
// changed, which decides the direction the other fields derive in.
type EditedField int

const (
	EditedOther EditedField = iota
	EditedDiscount
	EditedActMoney
)

const recalcEps = 1e-6

// RecalcRow rebalances qty, price, discount and the money columns of a
// cargo row. Quantity is always the sum of the size cells.
func (s *Sheet) RecalcRow(rowIdx int, edited EditedField) {
	row := s.Rows[rowIdx]
	qtyCol := s.col("qty")
	priceCol := s.col("price")
	discountCol := s.col("discount")
	actmoneyCol := s.col("actmoney")
	if qtyCol < 0 || priceCol < 0 || discountCol < 0 || actmoneyCol < 0 {
		return
	}

	var qtyScaled int64
	lo, hi := s.sizeColRange()
	for i := lo; i < hi; i++ {
		qtyScaled += numFromText(row.cell(i).Text)
	}
	qty := float64(qtyScaled) / numScale
	row.cell(qtyCol).Text = NumForRead(qtyScaled, s.Cols[qtyCol].Dots)

	setprice := s.cellFloat(row, "setprice")
	price := s.cellFloat(row, "price")
	discount := s.cellFloat(row, "discount")
	actmoney := s.cellFloat(row, "actmoney")

	if qtyScaled == 0 {
		actmoney = 0
	} else {
		// actmoney carries qty's sign; price and discount never go
		// negative.
		if qty > 0 {
			actmoney = math.Abs(actmoney)
		} else {
			actmoney = -math.Abs(actmoney)
		}
		price = math.Abs(price)
		discount = math.Abs(discount)
		hasSetPrice := setprice > recalcEps || setprice < -recalcEps
		switch edited {
		case EditedActMoney:
			price = actmoney / qty
			if hasSetPrice {
				discount = price / setprice
			} else {
				discount = 0
			}
		case EditedDiscount:
			price = discount * setprice
			actmoney = price * qty
		default:
			if hasSetPrice {
				discount = price / setprice
			} else {
				discount = 0
			}
			actmoney = price * qty
		}
	}
	dismoney := setprice*qty - actmoney

	s.setCellFloat(row, priceCol, price)
	s.setCellFloat(row, discountCol, discount)
	s.setCellFloat(row, actmoneyCol, actmoney)
	if dc := s.col("dismoney"); dc >= 0 {
		s.setCellFloat(row, dc, dismoney)
	}
	s.updateSizersBlob(rowIdx)
	row.markDirty()
}

func (s *Sheet) cellFloat(row *Row, name string) float64 {
	ci := s.col(name)
	if ci < 0 {
		return 0
	}
	v, err := strconv.ParseFloat(row.cell(ci).Text, 64)
	if err != nil {
		return 0
	}
	return v
}

func (s *Sheet) setCellFloat(row *Row, col int, v float64) {
	row.cell(col).Text = strconv.FormatFloat(v, 'f', s.Cols[col].Dots, 64)
}
