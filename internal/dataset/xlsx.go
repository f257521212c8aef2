package dataset

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"
)

// xlsxDateLayouts are the formats seen in raw spreadsheet exports, in addition
// to the artifact layouts.
var xlsxDateLayouts = []string{
	"1/2/06 15:04",
	"01-02-06 15:04",
	"2006/01/02 15:04:05",
}

// LoadTransactionsXLSX reads a raw spreadsheet transaction export and returns
// it as a transaction table. The first sheet is used; the header row must
// carry the standard transaction columns. Rows with a blank invoice number are
// skipped, rows with a blank customer id or description are kept; the null
// filter step handles those.
func LoadTransactionsXLSX(filePath string) (*TransactionTable, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q has no header row", sheets[0])
	}

	idx := headerIndex(rows[0])
	required := []string{
		ColInvoiceNo, ColStockCode, ColDescription, ColQuantity,
		ColInvoiceDate, ColUnitPrice, ColCustomerID, ColCountry,
	}
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			return nil, &MissingColumnError{Column: col}
		}
	}

	cell := func(row []string, col string) string {
		i := idx[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	table := &TransactionTable{Rows: make([]Transaction, 0, len(rows)-1)}
	skipped := 0
	for n, row := range rows[1:] {
		invoiceNo := cell(row, ColInvoiceNo)
		if invoiceNo == "" {
			skipped++
			continue
		}
		t := Transaction{
			InvoiceNo:   invoiceNo,
			StockCode:   cell(row, ColStockCode),
			Description: cell(row, ColDescription),
			CustomerID:  normalizeCustomerID(cell(row, ColCustomerID)),
			Country:     cell(row, ColCountry),
		}
		t.Quantity, err = cast.ToInt64E(strings.ReplaceAll(cell(row, ColQuantity), ",", ""))
		if err != nil {
			return nil, fmt.Errorf("sheet row %d: quantity: %w", n+2, err)
		}
		t.UnitPrice, err = cast.ToFloat64E(strings.ReplaceAll(cell(row, ColUnitPrice), ",", ""))
		if err != nil {
			return nil, fmt.Errorf("sheet row %d: unit price: %w", n+2, err)
		}
		t.InvoiceDate, err = parseXLSXDate(cell(row, ColInvoiceDate))
		if err != nil {
			return nil, fmt.Errorf("sheet row %d: %w", n+2, err)
		}
		table.Rows = append(table.Rows, t)
	}

	slog.Info("loaded spreadsheet export",
		slog.String("file", filePath),
		slog.Int("rows", len(table.Rows)),
		slog.Int("skipped", skipped))
	return table, nil
}

func parseXLSXDate(value string) (time.Time, error) {
	if ts, err := parseInvoiceDate(value); err == nil {
		return ts, nil
	}
	for _, layout := range xlsxDateLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized invoice date %q", value)
}

// normalizeCustomerID strips the float artifact of spreadsheet customer ids
// ("17850.0" becomes "17850"); a genuinely blank cell stays blank.
func normalizeCustomerID(id string) string {
	return strings.TrimSuffix(id, ".0")
}
