package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strconv"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"

	"tally/model"
)

// The legacy system exports its master tables as GBK CSV files with a
// header row. The readers below decode and map them.

func newMasterReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(transform.NewReader(SkipBOM(r), simplifiedchinese.GBK.NewDecoder()))
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	return cr
}

// ParseCargoCSV reads the cargo master export.
func ParseCargoCSV(r io.Reader) ([]model.CargoMaster, error) {
	cr := newMasterReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read cargo header: %w", err)
	}
	colIndex, err := getColIndex(header, []string{"hpcode", "hpname"})
	if err != nil {
		return nil, err
	}

	var cargos []model.CargoMaster
	for {
		row, readErr := cr.Read()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			log.Printf("WARN: Error reading cargo row (skipping): %v", readErr)
			continue
		}
		code := fieldAt(row, colIndex, "hpcode")
		if code == "" {
			continue
		}
		stopped := int64(0)
		if fieldAt(row, colIndex, "stopped") == "1" {
			stopped = -1
		}
		cargos = append(cargos, model.CargoMaster{
			HpCode:    code,
			HpName:    fieldAt(row, colIndex, "hpname"),
			ColorType: fieldAt(row, colIndex, "colortype"),
			SizerType: fieldAt(row, colIndex, "sizertype"),
			SetPrice:  scaledAt(row, colIndex, "setprice"),
			BuyPrice:  scaledAt(row, colIndex, "buyprice"),
			RetPrice:  scaledAt(row, colIndex, "retprice"),
			LotPrice:  scaledAt(row, colIndex, "lotprice"),
			Unit:      fieldAt(row, colIndex, "unit"),
			Attr1:     fieldAt(row, colIndex, "attr1"),
			Attr2:     fieldAt(row, colIndex, "attr2"),
			Attr3:     fieldAt(row, colIndex, "attr3"),
			Attr4:     fieldAt(row, colIndex, "attr4"),
			Attr5:     fieldAt(row, colIndex, "attr5"),
			Attr6:     fieldAt(row, colIndex, "attr6"),
			RegDis:    scaledAt(row, colIndex, "regdis"),
			Stopped:   stopped,
		})
	}
	return cargos, nil
}

// ParseColorCSV reads the color group export. Row order inside a group
// becomes the registered order.
func ParseColorCSV(r io.Reader) ([]model.ColorEntry, error) {
	cr := newMasterReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read color header: %w", err)
	}
	colIndex, err := getColIndex(header, []string{"colortype", "ccode", "cname"})
	if err != nil {
		return nil, err
	}

	var colors []model.ColorEntry
	ords := map[string]int{}
	for {
		row, readErr := cr.Read()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			log.Printf("WARN: Error reading color row (skipping): %v", readErr)
			continue
		}
		ct := fieldAt(row, colIndex, "colortype")
		name := fieldAt(row, colIndex, "cname")
		if ct == "" || name == "" {
			continue
		}
		ords[ct]++
		colors = append(colors, model.ColorEntry{
			ColorType: ct,
			Code:      fieldAt(row, colIndex, "ccode"),
			Name:      name,
			Ord:       ords[ct],
		})
	}
	return colors, nil
}

// ParseSizerCSV reads the size group export. Row order inside a group
// fixes the size-matrix column order.
func ParseSizerCSV(r io.Reader) ([]model.SizerEntry, error) {
	cr := newMasterReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read sizer header: %w", err)
	}
	colIndex, err := getColIndex(header, []string{"sizertype", "scode", "sname"})
	if err != nil {
		return nil, err
	}

	var sizers []model.SizerEntry
	ords := map[string]int{}
	for {
		row, readErr := cr.Read()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			log.Printf("WARN: Error reading sizer row (skipping): %v", readErr)
			continue
		}
		st := fieldAt(row, colIndex, "sizertype")
		name := fieldAt(row, colIndex, "sname")
		if st == "" || name == "" {
			continue
		}
		ords[st]++
		sizers = append(sizers, model.SizerEntry{
			SizerType: st,
			Code:      fieldAt(row, colIndex, "scode"),
			Name:      name,
			Ord:       ords[st],
		})
	}
	return sizers, nil
}

// ParsePolicyCSV reads the pricing policy export the supplier portal
// serves.
func ParsePolicyCSV(r io.Reader) ([]model.PolicyRow, error) {
	cr := newMasterReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read policy header: %w", err)
	}
	colIndex, err := getColIndex(header, []string{"traderexp", "cargoexp", "policydis"})
	if err != nil {
		return nil, err
	}

	var policies []model.PolicyRow
	for {
		row, readErr := cr.Read()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			log.Printf("WARN: Error reading policy row (skipping): %v", readErr)
			continue
		}
		level, _ := strconv.Atoi(fieldAt(row, colIndex, "uselevel"))
		policies = append(policies, model.PolicyRow{
			TraderExp: fieldAt(row, colIndex, "traderexp"),
			CargoExp:  fieldAt(row, colIndex, "cargoexp"),
			PolicyDis: scaledAt(row, colIndex, "policydis"),
			UseLevel:  level,
		})
	}
	return policies, nil
}
