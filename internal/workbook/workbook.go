package workbook

import (
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"jobsingest/internal/errors"
	"jobsingest/internal/table"
)

// Workbook gives access to the named sheets of one input file.
type Workbook interface {
	// SheetNames lists the sheets in workbook order
	SheetNames() []string
	// Sheet returns the named sheet, or nil without error when the workbook has no such sheet.
	Sheet(name string) (*table.Table, error)
	Close() error
}

// ExcelWorkbook is a Workbook backed by an .xlsx file
type ExcelWorkbook struct {
	file     *excelize.File
	path     string
	date1904 bool
	logger   *slog.Logger
}

// Open opens an .xlsx workbook. Failure to open is an input-access error.
func Open(path string, logger *slog.Logger) (*ExcelWorkbook, error) {
	if logger == nil {
		logger = slog.Default()
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewInputAccessError("cannot read workbook", err).WithContext("path", path)
	}
	wb := &ExcelWorkbook{file: f, path: path, logger: logger}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		wb.date1904 = *props.Date1904
	}
	logger.Debug("Workbook opened",
		slog.String("path", path),
		slog.Any("sheets", wb.SheetNames()))
	return wb, nil
}

// SheetNames implements Workbook
func (w *ExcelWorkbook) SheetNames() []string {
	return w.file.GetSheetList()
}

// Sheet implements Workbook. The first row is the header; sheet names match exactly.
// Cells are read by stored value rather than display text: numbers keep their
// digits whatever their format, and date-styled serials become RFC 3339 UTC text.
func (w *ExcelWorkbook) Sheet(name string) (*table.Table, error) {
	if !w.hasSheet(name) {
		w.logger.Debug("Sheet not present", slog.String("sheet", name))
		return nil, nil
	}
	rows, err := w.file.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.NewParsingError(fmt.Sprintf("cannot read sheet %q", name), err).
			WithContext("path", w.path)
	}
	converted, err := w.resolveDates(name, rows)
	if err != nil {
		return nil, errors.NewParsingError(fmt.Sprintf("cannot read cell styles of sheet %q", name), err).
			WithContext("path", w.path)
	}
	t := table.FromRows(name, rows)
	w.logger.Debug("Sheet loaded",
		slog.String("sheet", name),
		slog.Int("columns", len(t.Headers())),
		slog.Int("rows", t.Len()),
		slog.Int("date_cells", converted))
	return t, nil
}

// Close releases the underlying file
func (w *ExcelWorkbook) Close() error {
	return w.file.Close()
}

func (w *ExcelWorkbook) hasSheet(name string) bool {
	for _, s := range w.file.GetSheetList() {
		if s == name {
			return true
		}
	}
	return false
}
