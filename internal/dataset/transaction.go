package dataset

import (
	"strings"
	"time"
)

// Transaction column names as they appear in persisted artifacts.
const (
	ColInvoiceNo   = "InvoiceNo"
	ColStockCode   = "StockCode"
	ColDescription = "Description"
	ColQuantity    = "Quantity"
	ColInvoiceDate = "InvoiceDate"
	ColUnitPrice   = "UnitPrice"
	ColCustomerID  = "CustomerID"
	ColCountry     = "Country"
	ColStatus      = "TransactionStatus"
)

// Transaction status values.
const (
	StatusCancelled = "Cancelled"
	StatusCompleted = "Completed"
)

// cancellationMarker prefixes the invoice number of cancelled transactions.
const cancellationMarker = "C"

// Transaction is one row of the transaction export. A missing CustomerID or
// Description is represented by the empty string.
type Transaction struct {
	InvoiceNo   string
	StockCode   string
	Description string
	Quantity    int64
	InvoiceDate time.Time
	UnitPrice   float64
	CustomerID  string
	Country     string
	Status      string
}

// TransactionTable holds transaction rows in their artifact order. HasStatus
// records whether the status column has been derived yet; it is persisted only
// when set.
type TransactionTable struct {
	Rows      []Transaction
	HasStatus bool
}

// IsCancellation reports whether an invoice number denotes a cancelled
// transaction. The same prefix rule is applied by the status classifier and,
// independently, by the cancellation analyzer.
func IsCancellation(invoiceNo string) bool {
	return strings.HasPrefix(invoiceNo, cancellationMarker)
}

// Len returns the number of rows.
func (t *TransactionTable) Len() int {
	return len(t.Rows)
}

// Clone returns a deep copy of the table. Steps never mutate a table they did
// not produce, so every transform starts from a copy it owns.
func (t *TransactionTable) Clone() *TransactionTable {
	rows := make([]Transaction, len(t.Rows))
	copy(rows, t.Rows)
	return &TransactionTable{Rows: rows, HasStatus: t.HasStatus}
}
