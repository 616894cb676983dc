package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/tallerlink/pricebot/internal/models"
)

// buildWorkbook writes rows to the first sheet of a fresh workbook and
// returns its serialized bytes.
func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestLoadXLSXBytes(t *testing.T) {
	content := buildWorkbook(t, [][]interface{}{
		{"Producto", "Precio"},
		{"Pantalla iPhone 14 Original", 2500},
		{"Bateria iPhone 14", 950},
	})

	items, err := LoadXLSXBytes(content)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}

	first := items[0]
	if first.Brand != "apple" || first.DeviceModel != "iphone 14" {
		t.Errorf("classified as %s/%s, want apple/iphone 14", first.Brand, first.DeviceModel)
	}
	if first.ServiceType != "pantalla" || first.QualityTier != "original" {
		t.Errorf("classified as %s/%s, want pantalla/original", first.ServiceType, first.QualityTier)
	}
	if first.Price == nil || *first.Price != 2500 {
		t.Errorf("Price = %v, want 2500", first.Price)
	}

	second := items[1]
	if second.ServiceType != "bateria" {
		t.Errorf("ServiceType = %q, want bateria", second.ServiceType)
	}
	if second.Price == nil || *second.Price != 950 {
		t.Errorf("Price = %v, want 950", second.Price)
	}
}

func TestLoadXLSXBytes_HeaderOnly(t *testing.T) {
	content := buildWorkbook(t, [][]interface{}{
		{"Producto", "Precio"},
	})

	_, err := LoadXLSXBytes(content)
	var parseErr *models.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("err = %v, want ParseError", err)
	}
}

func TestLoadXLSXBytes_NotAWorkbook(t *testing.T) {
	_, err := LoadXLSXBytes([]byte("Producto,Precio\nPantalla iPhone 14,2500\n"))
	var parseErr *models.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("err = %v, want ParseError", err)
	}
}

func TestLoadFile_DispatchesOnExtension(t *testing.T) {
	dir := t.TempDir()

	xlsxPath := filepath.Join(dir, "precios.xlsx")
	content := buildWorkbook(t, [][]interface{}{
		{"Producto", "Precio"},
		{"Pantalla Galaxy S23", 1800},
	})
	if err := os.WriteFile(xlsxPath, content, 0o644); err != nil {
		t.Fatal(err)
	}
	items, err := LoadFile(xlsxPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].DeviceModel != "galaxy s23" {
		t.Fatalf("xlsx items = %v", items)
	}

	csvPath := filepath.Join(dir, "precios.csv")
	if err := os.WriteFile(csvPath, []byte("Producto,Precio\nPantalla Galaxy S23,1800\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	items, err = LoadFile(csvPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].DeviceModel != "galaxy s23" {
		t.Fatalf("csv items = %v", items)
	}
}
