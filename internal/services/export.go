package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"salesdash/internal/errors"
	"salesdash/internal/models"

	"github.com/xuri/excelize/v2"
)

// ExportCSV writes the RowSet with exactly the column set it was loaded
// with, no computed columns. Floats use shortest round-trip formatting so
// re-parsing an export reproduces the set field by field.
func ExportCSV(w io.Writer, rows models.RowSet) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(exportHeader(rows)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range rows.Records {
		if err := writer.Write(exportFields(rec, rows)); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// ExportXLSX writes the RowSet as a single-sheet workbook with the same
// column set as ExportCSV.
func ExportXLSX(w io.Writer, rows models.RowSet) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	header := exportHeader(rows)
	cells := make([]any, len(header))
	for i, h := range header {
		cells[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &cells); err != nil {
		return errors.InternalWrap(err, "write spreadsheet header")
	}

	for i, rec := range rows.Records {
		fields := exportFields(rec, rows)
		cells := make([]any, len(fields))
		for j, v := range fields {
			cells[j] = v
		}
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.InternalWrap(err, "compute cell address")
		}
		if err := f.SetSheetRow(sheet, addr, &cells); err != nil {
			return errors.InternalWrap(err, "write spreadsheet row")
		}
	}

	return f.Write(w)
}

func exportHeader(rows models.RowSet) []string {
	header := []string{colOrderDate, colProduct, colRegion, colQuantity, colUnitPrice, colSales}
	if rows.HasCity {
		header = append(header, colCity)
	}
	if rows.HasGeo {
		header = append(header, colLatitude, colLongitude)
	}
	return header
}

func exportFields(rec models.Record, rows models.RowSet) []string {
	fields := []string{
		rec.OrderDate.Format(dateFormat),
		rec.Product,
		rec.Region,
		strconv.Itoa(rec.Quantity),
		formatFloat(rec.UnitPrice),
		formatFloat(rec.Sales),
	}
	if rows.HasCity {
		fields = append(fields, rec.City)
	}
	if rows.HasGeo {
		fields = append(fields, formatFloat(rec.Latitude), formatFloat(rec.Longitude))
	}
	return fields
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
