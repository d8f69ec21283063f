package services

import (
	"encoding/csv"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"salesdash/internal/errors"
	"salesdash/internal/models"

	"github.com/xuri/excelize/v2"
)

// Recognized input columns. Extra columns are ignored; the optional geo
// columns switch on the city/geo fallback tiers.
const (
	colOrderDate = "order_date"
	colProduct   = "product"
	colRegion    = "region"
	colQuantity  = "quantity"
	colUnitPrice = "unit_price"
	colSales     = "sales"
	colCity      = "city"
	colLatitude  = "latitude"
	colLongitude = "longitude"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"1/2/2006",
}

// LoadFile parses a CSV or XLSX upload into a RowSet. The format is chosen
// by file extension; anything that is not .xlsx is read as CSV. A file that
// cannot be parsed as tabular data yields a LOAD_ERROR and an empty RowSet,
// never a panic. Rows whose order_date does not parse are dropped.
func LoadFile(r io.Reader, filename string) (models.RowSet, error) {
	var (
		table [][]string
		err   error
	)

	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		table, err = readXLSX(r)
	} else {
		table, err = readCSV(r)
	}
	if err != nil {
		return models.RowSet{}, errors.LoadWrap(err, "could not parse uploaded file as tabular data")
	}

	rows, err := rowsFromTable(table)
	if err != nil {
		return models.RowSet{}, err
	}
	return rows, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return reader.ReadAll()
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	return f.GetRows(sheet)
}

type columnIndex map[string]int

func (c columnIndex) has(name string) bool {
	_, ok := c[name]
	return ok
}

// rowsFromTable maps a header row plus data rows onto Records. The six core
// columns are required; a table missing any of them is not usable by the
// pipeline and is reported as a load error.
func rowsFromTable(table [][]string) (models.RowSet, error) {
	if len(table) == 0 {
		return models.RowSet{}, errors.Load("file contains no rows")
	}

	cols := columnIndex{}
	for i, name := range table[0] {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	for _, required := range []string{colOrderDate, colProduct, colRegion, colQuantity, colUnitPrice, colSales} {
		if !cols.has(required) {
			return models.RowSet{}, errors.Load("missing required column: " + required)
		}
	}

	rows := models.RowSet{
		HasCity: cols.has(colCity),
		HasGeo:  cols.has(colLatitude) && cols.has(colLongitude),
	}

	for _, raw := range table[1:] {
		rec, ok := parseRecord(raw, cols, rows.HasCity, rows.HasGeo)
		if !ok {
			continue
		}
		rows.Records = append(rows.Records, rec)
	}

	return rows, nil
}

func parseRecord(raw []string, cols columnIndex, hasCity, hasGeo bool) (models.Record, bool) {
	field := func(name string) (string, bool) {
		i, ok := cols[name]
		if !ok || i >= len(raw) {
			return "", false
		}
		return strings.TrimSpace(raw[i]), true
	}

	dateStr, ok := field(colOrderDate)
	if !ok {
		return models.Record{}, false
	}
	date, ok := parseDate(dateStr)
	if !ok {
		return models.Record{}, false
	}

	product, _ := field(colProduct)
	region, _ := field(colRegion)

	quantity, ok := parseInt(field(colQuantity))
	if !ok || quantity < 0 {
		return models.Record{}, false
	}
	unitPrice, ok := parseFloat(field(colUnitPrice))
	if !ok {
		return models.Record{}, false
	}
	sales, ok := parseFloat(field(colSales))
	if !ok || sales < 0 {
		return models.Record{}, false
	}

	rec := models.Record{
		OrderDate: date,
		Product:   product,
		Region:    region,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Sales:     sales,
	}

	if hasCity {
		rec.City, _ = field(colCity)
	}
	if hasGeo {
		lat, okLat := parseFloat(field(colLatitude))
		lon, okLon := parseFloat(field(colLongitude))
		if okLat && okLon {
			rec.Latitude = lat
			rec.Longitude = lon
		}
	}

	return rec, true
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Truncate(24 * time.Hour), true
		}
	}
	return time.Time{}, false
}

func parseFloat(s string, ok bool) (float64, bool) {
	if !ok || s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseInt accepts both integer and float spellings; spreadsheet exports
// frequently render integer cells as "2.0".
func parseInt(s string, ok bool) (int, bool) {
	if !ok || s == "" {
		return 0, false
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return int(f), true
}
