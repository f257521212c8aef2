package dataset

import (
	"encoding/csv"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cast"
)

// invoiceDateLayout is the timestamp format used in persisted artifacts.
const invoiceDateLayout = "2006-01-02 15:04:05"

// invoiceDateLayouts are accepted on load, most specific first. Raw exports
// converted from the spreadsheet carry minute precision; artifacts written by
// this package carry seconds.
var invoiceDateLayouts = []string{
	invoiceDateLayout,
	"2006-01-02 15:04",
	time.RFC3339,
	"1/2/2006 15:04",
	"2006-01-02",
}

// MissingColumnError reports a required column absent from an artifact header.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("required column %q missing from artifact header", e.Column)
}

// Store reads and writes named table artifacts under a single directory. Each
// step reads one or more artifacts and writes exactly one.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the filesystem path of a named artifact.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

func (s *Store) openArtifact(name string) (*os.File, error) {
	f, err := os.Open(s.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("artifact %q: %w", name, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("open artifact %q: %w", name, err)
	}
	return f, nil
}

func (s *Store) createArtifact(name string) (*os.File, error) {
	path := s.Path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create artifact directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create artifact %q: %w", name, err)
	}
	return f, nil
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[col] = i
	}
	return idx
}

func parseInvoiceDate(value string) (time.Time, error) {
	for _, layout := range invoiceDateLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized invoice date %q", value)
}

// LoadTransactions reads a transaction artifact, checking the header for
// every required transaction column before parsing any row.
func (s *Store) LoadTransactions(name string) (*TransactionTable, error) {
	f, err := s.openArtifact(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read artifact %q: %w", name, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("artifact %q has no header row", name)
	}

	idx := headerIndex(records[0])
	required := []string{
		ColInvoiceNo, ColStockCode, ColDescription, ColQuantity,
		ColInvoiceDate, ColUnitPrice, ColCustomerID, ColCountry,
	}
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			return nil, &MissingColumnError{Column: col}
		}
	}
	statusIdx, hasStatus := idx[ColStatus]

	table := &TransactionTable{
		Rows:      make([]Transaction, 0, len(records)-1),
		HasStatus: hasStatus,
	}
	for n, record := range records[1:] {
		row := Transaction{
			InvoiceNo:   record[idx[ColInvoiceNo]],
			StockCode:   record[idx[ColStockCode]],
			Description: record[idx[ColDescription]],
			CustomerID:  record[idx[ColCustomerID]],
			Country:     record[idx[ColCountry]],
		}
		row.Quantity, err = cast.ToInt64E(record[idx[ColQuantity]])
		if err != nil {
			return nil, fmt.Errorf("artifact %q row %d: quantity: %w", name, n+1, err)
		}
		row.UnitPrice, err = cast.ToFloat64E(record[idx[ColUnitPrice]])
		if err != nil {
			return nil, fmt.Errorf("artifact %q row %d: unit price: %w", name, n+1, err)
		}
		row.InvoiceDate, err = parseInvoiceDate(record[idx[ColInvoiceDate]])
		if err != nil {
			return nil, fmt.Errorf("artifact %q row %d: %w", name, n+1, err)
		}
		if hasStatus {
			row.Status = record[statusIdx]
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// SaveTransactions writes a transaction artifact, including the status column
// only once the classifier has derived it.
func (s *Store) SaveTransactions(name string, t *TransactionTable) error {
	f, err := s.createArtifact(name)
	if err != nil {
		return err
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{
		ColInvoiceNo, ColStockCode, ColDescription, ColQuantity,
		ColInvoiceDate, ColUnitPrice, ColCustomerID, ColCountry,
	}
	if t.HasStatus {
		header = append(header, ColStatus)
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, row := range t.Rows {
		record := []string{
			row.InvoiceNo,
			row.StockCode,
			row.Description,
			strconv.FormatInt(row.Quantity, 10),
			row.InvoiceDate.Format(invoiceDateLayout),
			strconv.FormatFloat(row.UnitPrice, 'f', -1, 64),
			row.CustomerID,
			row.Country,
		}
		if t.HasStatus {
			record = append(record, row.Status)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}
	if err := writer.Error(); err != nil {
		return err
	}

	slog.Info("wrote transaction artifact",
		slog.String("artifact", name),
		slog.Int("rows", len(t.Rows)))
	return nil
}

// LoadMetrics reads a customer metrics artifact. The header must lead with
// CustomerID and contain every column in required; empty cells load as nulls.
func (s *Store) LoadMetrics(name string, required ...string) (*MetricsTable, error) {
	f, err := s.openArtifact(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read artifact %q: %w", name, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("artifact %q has no header row", name)
	}

	header := records[0]
	if len(header) == 0 || header[0] != ColCustomerID {
		return nil, &MissingColumnError{Column: ColCustomerID}
	}
	columns := header[1:]
	idx := headerIndex(columns)
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			return nil, &MissingColumnError{Column: col}
		}
	}

	table := NewMetricsTable(columns...)
	for n, record := range records[1:] {
		row := MetricsRow{CustomerID: record[0]}
		for i, col := range columns {
			cell := record[i+1]
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("artifact %q row %d column %q: %w", name, n+1, col, err)
			}
			row.Set(col, v)
		}
		table.Append(row)
	}
	return table, nil
}

// SaveMetrics writes a customer metrics artifact. Null cells persist as empty
// fields.
func (s *Store) SaveMetrics(name string, t *MetricsTable) error {
	f, err := s.createArtifact(name)
	if err != nil {
		return err
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := append([]string{ColCustomerID}, t.Columns...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i := range t.Rows {
		record := make([]string, 0, len(header))
		record = append(record, t.Rows[i].CustomerID)
		for _, col := range t.Columns {
			if v, set := t.Rows[i].Value(col); set {
				record = append(record, strconv.FormatFloat(v, 'f', -1, 64))
			} else {
				record = append(record, "")
			}
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}
	if err := writer.Error(); err != nil {
		return err
	}

	slog.Info("wrote metrics artifact",
		slog.String("artifact", name),
		slog.Int("rows", len(t.Rows)),
		slog.Int("columns", len(t.Columns)))
	return nil
}
