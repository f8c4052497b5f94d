package parsers

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// SkipBOM strips a UTF-8 BOM when present.
func SkipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	bom := []byte{0xEF, 0xBB, 0xBF}
	peeked, err := br.Peek(3)
	if err != nil {
		return br
	}
	isBOM := true
	for i, b := range bom {
		if peeked[i] != b {
			isBOM = false
			break
		}
	}
	if isBOM {
		br.Read(make([]byte, 3))
	}
	return br
}

// getColIndex maps header names to column positions and verifies the
// required ones exist.
func getColIndex(header []string, required []string) (map[string]int, error) {
	colIndex := make(map[string]int)
	for i, colName := range header {
		colIndex[strings.TrimSpace(colName)] = i
	}
	for _, req := range required {
		if _, ok := colIndex[req]; !ok {
			return nil, fmt.Errorf("required header missing: %s", req)
		}
	}
	return colIndex, nil
}

func fieldAt(row []string, colIndex map[string]int, name string) string {
	i, ok := colIndex[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// scaledAt parses a decimal column into the 10000-scaled integer the
// tables store. Blank or unparsable cells become 0.
func scaledAt(row []string, colIndex map[string]int, name string) int64 {
	v, err := strconv.ParseFloat(fieldAt(row, colIndex, name), 64)
	if err != nil {
		return 0
	}
	return int64(math.Round(v * 10000))
}
