package reference

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/yanqian/growth-monitor/internal/domain/growth"
)

// ErrMalformed reports a table file that cannot be interpreted at all.
var ErrMalformed = errors.New("malformed reference table")

var canonicalColumns = map[string]string{
	"month":        "month",
	"months":       "month",
	"age":          "month",
	"age_mo":       "month",
	"age_months":   "month",
	"age (months)": "month",
	"l":            "l",
	"m":            "m",
	"s":            "s",
}

var requiredColumns = []string{"month", "l", "m", "s"}

// DroppedRow records a data row skipped during decoding.
type DroppedRow struct {
	Line   int
	Reason string
}

// Decoded is the usable content of one table file.
type Decoded struct {
	Rows    []growth.LMSRow
	Dropped []DroppedRow
}

func decodeDelimited(r io.Reader) (Decoded, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Decoded{}, fmt.Errorf("read table: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	var (
		records [][]string
		lines   []int
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Decoded{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		line, _ := reader.FieldPos(0)
		records = append(records, record)
		lines = append(lines, line)
	}
	return decodeRecords(records, lines)
}

// detectDelimiter inspects the header line. Semicolons win because files
// exported with comma decimals cannot use a comma separator.
func detectDelimiter(data []byte) rune {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	header := ""
	if scanner.Scan() {
		header = scanner.Text()
	}
	switch {
	case strings.Contains(header, ";"):
		return ';'
	case strings.Contains(header, "\t"):
		return '\t'
	default:
		return ','
	}
}

func decodeXLSX(r io.Reader) (Decoded, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Decoded{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return Decoded{}, fmt.Errorf("%w: workbook has no sheets", ErrMalformed)
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return Decoded{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return decodeRecords(rows, nil)
}

// decodeRecords maps the header onto the canonical columns. lines holds the
// source line of each record; nil means records are consecutive from line 1.
func decodeRecords(records [][]string, lines []int) (Decoded, error) {
	if len(records) == 0 {
		return Decoded{}, fmt.Errorf("%w: missing header row", ErrMalformed)
	}
	columns := make(map[string]int, len(requiredColumns))
	for i, name := range records[0] {
		canonical, ok := canonicalColumns[normalizeHeader(name)]
		if !ok {
			continue
		}
		if _, dup := columns[canonical]; !dup {
			columns[canonical] = i
		}
	}
	for _, col := range requiredColumns {
		if _, ok := columns[col]; !ok {
			return Decoded{}, fmt.Errorf("%w: missing column %q", ErrMalformed, col)
		}
	}

	var out Decoded
	for i := 1; i < len(records); i++ {
		record := records[i]
		line := i + 1
		if lines != nil {
			line = lines[i]
		}
		if isBlank(record) {
			continue
		}
		row, err := parseRow(record, columns)
		if err != nil {
			out.Dropped = append(out.Dropped, DroppedRow{Line: line, Reason: err.Error()})
			continue
		}
		out.Rows = append(out.Rows, row)
	}
	if len(out.Rows) == 0 {
		return Decoded{}, fmt.Errorf("%w: no usable rows", ErrMalformed)
	}
	return out, nil
}

func parseRow(record []string, columns map[string]int) (growth.LMSRow, error) {
	var values [4]float64
	for i, col := range requiredColumns {
		idx := columns[col]
		if idx >= len(record) {
			return growth.LMSRow{}, fmt.Errorf("column %s missing", col)
		}
		v, err := parseNumber(record[idx])
		if err != nil {
			return growth.LMSRow{}, fmt.Errorf("column %s: %w", col, err)
		}
		values[i] = v
	}
	row := growth.LMSRow{AgeMonths: values[0], L: values[1], M: values[2], S: values[3]}
	if row.M <= 0 || row.S <= 0 {
		return growth.LMSRow{}, fmt.Errorf("non-positive M or S")
	}
	return row, nil
}

// normalizeHeader lowercases and collapses whitespace.
func normalizeHeader(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// parseNumber accepts regional comma decimals ("0,3487").
func parseNumber(raw string) (float64, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if clean == "" {
		return 0, errors.New("empty value")
	}
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not finite: %q", raw)
	}
	return v, nil
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
