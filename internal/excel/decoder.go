package excel

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"mother_homes/internal/domain"
)

// ErrNoSheets is returned for a workbook that contains no sheets at all.
var ErrNoSheets = errors.New("workbook has no sheets")

// DecodeError marks a buffer that could not be read as a workbook. It is
// fatal for the whole batch: no row has been processed when it occurs.
type DecodeError struct{ Err error }

func (e *DecodeError) Error() string { return "decode workbook: " + e.Err.Error() }
func (e *DecodeError) Unwrap() error { return e.Err }

// Decode turns an xlsx buffer into ordered raw rows keyed by the header
// row of the first sheet. Subsequent sheets are ignored. Result index i
// corresponds to file row i+2 (the header is row 1), which is the number
// used in per-row error reports.
func Decode(buf []byte) ([]domain.RawRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(buf))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &DecodeError{Err: ErrNoSheets}
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &DecodeError{Err: fmt.Errorf("read sheet %q: %w", sheet, err)}
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}

	out := make([]domain.RawRow, 0, len(rows)-1)
	for ri := 1; ri < len(rows); ri++ {
		cells := make(map[string]domain.Cell, len(header))
		for ci, name := range header {
			if name == "" || ci >= len(rows[ri]) {
				continue
			}
			val := rows[ri][ci]
			if val == "" {
				continue
			}
			cells[name] = classify(f, sheet, ci, ri, val)
		}
		if len(cells) == 0 {
			// blank rows are dropped; numbering follows the surviving sequence
			continue
		}
		out = append(out, domain.RawRow{Line: len(out) + 2, Cells: cells})
	}
	return out, nil
}

// classify picks the cell variant: booleans by the stored cell type,
// numbers by parse, everything else as text.
func classify(f *excelize.File, sheet string, col, row int, val string) domain.Cell {
	if axis, err := excelize.CoordinatesToCellName(col+1, row+1); err == nil {
		if t, terr := f.GetCellType(sheet, axis); terr == nil && t == excelize.CellTypeBool {
			return domain.BoolCell(strings.EqualFold(val, "TRUE") || val == "1")
		}
	}
	if n, err := strconv.ParseFloat(val, 64); err == nil {
		return domain.NumberCell(val, n)
	}
	return domain.StringCell(val)
}
