// Package inventory renders bucket listings as spreadsheet exports.
package inventory

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"stowage/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

const sheetName = "Objects"

var columns = []string{
	"Bucket",
	"Key",
	"Size (bytes)",
	"Folder",
	"ETag",
	"Last Modified",
}

// Write renders objects in the given format to w.
func Write(w io.Writer, format domain.ExportFormat, bucket string, objects []domain.ObjectInfo) error {
	switch format {
	case domain.ExportCSV:
		return WriteCSV(w, bucket, objects)
	case domain.ExportXLSX:
		return WriteXLSX(w, bucket, objects)
	default:
		return fmt.Errorf("%w: %q", domain.ErrInvalidExportFormat, format)
	}
}

// WriteCSV writes a BOM-prefixed CSV with one row per object.
func WriteCSV(w io.Writer, bucket string, objects []domain.ObjectInfo) error {
	if _, err := w.Write(BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	for i := range objects {
		if err := cw.Write(objectToRow(bucket, &objects[i])); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes a single-sheet workbook with one row per object.
func WriteXLSX(w io.Writer, bucket string, objects []domain.ObjectInfo) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return fmt.Errorf("stream writer: %w", err)
	}
	if err := sw.SetRow("A1", toCells(columns)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range objects {
		obj := &objects[i]
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			bucket,
			obj.Key,
			obj.Size,
			formatBool(obj.IsFolder()),
			obj.ETag,
			formatTime(obj.LastModified),
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func objectToRow(bucket string, obj *domain.ObjectInfo) []string {
	return []string{
		bucket,
		obj.Key,
		strconv.FormatInt(obj.Size, 10),
		formatBool(obj.IsFolder()),
		obj.ETag,
		formatTime(obj.LastModified),
	}
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
