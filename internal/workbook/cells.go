package workbook

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// builtInDateFormats are the built-in number format IDs that render a serial
// as a date, a time or both, including the locale-specific ranges.
var builtInDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true, 21: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true, 32: true, 33: true, 34: true, 35: true, 36: true,
	45: true, 46: true, 47: true,
	50: true, 51: true, 52: true, 53: true, 54: true, 55: true, 56: true, 57: true, 58: true,
}

// resolveDates rewrites, in place, every numeric data cell whose style is a
// date or time format from its serial value to RFC 3339 UTC text. The header
// row is left alone. It returns the number of rewritten cells.
func (w *ExcelWorkbook) resolveDates(sheet string, rows [][]string) (int, error) {
	dateStyles := make(map[int]bool)
	converted := 0
	for r := 1; r < len(rows); r++ {
		for c, raw := range rows[r] {
			serial, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if err != nil || math.IsNaN(serial) || math.IsInf(serial, 0) || serial < 0 {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return converted, err
			}
			styleID, err := w.file.GetCellStyle(sheet, cell)
			if err != nil {
				return converted, err
			}
			isDate, seen := dateStyles[styleID]
			if !seen {
				isDate = w.isDateStyle(styleID)
				dateStyles[styleID] = isDate
			}
			if !isDate {
				continue
			}
			ts, err := excelize.ExcelDateToTime(serial, w.date1904)
			if err != nil {
				continue
			}
			rows[r][c] = ts.UTC().Round(time.Millisecond).Format(time.RFC3339Nano)
			converted++
		}
	}
	return converted, nil
}

func (w *ExcelWorkbook) isDateStyle(styleID int) bool {
	if styleID == 0 {
		return false
	}
	style, err := w.file.GetStyle(styleID)
	if err != nil || style == nil {
		return false
	}
	if style.CustomNumFmt != nil {
		return isDateFormat(*style.CustomNumFmt)
	}
	return builtInDateFormats[style.NumFmt]
}

// isDateFormat reports whether a custom number format code has date or time
// tokens outside quoted literals, escapes and bracketed modifiers. Elapsed
// time brackets such as [h] count as time.
func isDateFormat(code string) bool {
	var (
		tokens  strings.Builder
		bracket strings.Builder
		quoted  bool
		inBrack bool
	)
	for i := 0; i < len(code); i++ {
		ch := code[i]
		switch {
		case quoted:
			if ch == '"' {
				quoted = false
			}
		case inBrack:
			if ch == ']' {
				inBrack = false
				if b := strings.ToLower(bracket.String()); b != "" && strings.Trim(b, "hms") == "" {
					tokens.WriteByte('h')
				}
				bracket.Reset()
			} else {
				bracket.WriteByte(ch)
			}
		case ch == '"':
			quoted = true
		case ch == '[':
			inBrack = true
		case ch == '\\' || ch == '_' || ch == '*':
			i++
		default:
			tokens.WriteByte(ch)
		}
	}
	return strings.ContainsAny(strings.ToLower(tokens.String()), "ymdhs")
}
