package validation

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"jobsingest/internal/errors"
)

// workbookExtensions are the spreadsheet formats excelize can open
var workbookExtensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".xltx": true,
	".xltm": true,
}

// FileValidator checks input paths before they reach the pipeline
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateFile checks if a specific file exists and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return errors.NewInputAccessError("file does not exist", err).WithContext("path", path)
	}
	if err != nil {
		return errors.NewInputAccessError("failed to stat file", err).WithContext("path", path)
	}
	if info.IsDir() {
		return errors.NewInputAccessError("path is a directory, not a file", nil).WithContext("path", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return errors.NewInputAccessError("file is not readable", err).WithContext("path", path)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateWorkbook checks that path names a readable workbook. An unexpected
// extension is only logged; the workbook reader decides whether it can parse
// the content.
func (v *FileValidator) ValidateWorkbook(path string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}

	if strings.HasPrefix(filepath.Base(path), "~$") {
		return errors.NewInputAccessError("file is a temporary Excel lock file", nil).WithContext("path", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !workbookExtensions[ext] {
		v.logger.Warn("Unexpected workbook extension",
			slog.String("file", path),
			slog.String("extension", ext))
	}
	return nil
}
