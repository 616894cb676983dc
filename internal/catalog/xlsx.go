package catalog

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/tallerlink/pricebot/internal/models"
)

// LoadXLSX loads a price list from an xlsx workbook. Only the first sheet is
// read; its first row is headers, first column the product name.
func LoadXLSX(path string) ([]*models.CatalogItem, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read price list: %w", err)
	}
	return LoadXLSXBytes(content)
}

// LoadXLSXBytes parses xlsx content already in memory.
func LoadXLSXBytes(content []byte) ([]*models.CatalogItem, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, &models.ParseError{Reason: fmt.Sprintf("open xlsx: %v", err)}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &models.ParseError{Reason: "workbook has no sheets"}
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &models.ParseError{Reason: fmt.Sprintf("get rows for sheet %q: %v", sheets[0], err)}
	}
	return FromRows(rows)
}

// LoadFile dispatches on the file extension: .xlsx goes through excelize,
// anything else is read as delimited text.
func LoadFile(path string) ([]*models.CatalogItem, error) {
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return LoadXLSX(path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read price list: %w", err)
	}
	return Load(string(content))
}
