// Package csvexport renders transaction and invoice lists as CSV for the
// accountant handoff. Output follows German spreadsheet conventions:
// semicolon separator, comma decimals, DD.MM.YYYY dates.
package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"belegwerk/internal/domain"
	"belegwerk/internal/locale"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

var transactionColumns = []string{
	"Buchungsdatum",
	"Korrespondent",
	"Titel",
	"Beschreibung",
	"Typ",
	"Betrag",
	"Währung",
	"Netto",
	"USt",
	"Geprüft",
}

var invoiceColumns = []string{
	"Rechnungsnummer",
	"Rechnungsdatum",
	"Fällig bis",
	"Kunde",
	"Netto",
	"USt-Satz",
	"USt",
	"Brutto",
	"Positionen",
	"Projekt",
}

// Writer wraps csv.Writer for exporting records as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes semicolon-separated CSV to w.
func NewWriter(w io.Writer) *Writer {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	return &Writer{csv: cw}
}

// WriteTransactionHeader writes the bank transaction header row.
func (w *Writer) WriteTransactionHeader() error {
	return w.csv.Write(transactionColumns)
}

// WriteTransactions converts bank transactions to CSV rows and writes them.
func (w *Writer) WriteTransactions(txns []domain.BankTransaction) error {
	for i := range txns {
		if err := w.csv.Write(transactionToRow(&txns[i])); err != nil {
			return err
		}
	}
	return nil
}

// WriteInvoiceHeader writes the invoice header row.
func (w *Writer) WriteInvoiceHeader() error {
	return w.csv.Write(invoiceColumns)
}

// WriteInvoices converts invoices to CSV rows and writes them. The customer
// name is resolved by the caller and passed per invoice ID.
func (w *Writer) WriteInvoices(invoices []domain.Invoice, customerNames map[string]string) error {
	for i := range invoices {
		if err := w.csv.Write(invoiceToRow(&invoices[i], customerNames)); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func transactionToRow(txn *domain.BankTransaction) []string {
	return []string{
		txn.BookedOn.Format("02.01.2006"),
		txn.Correspondent,
		txn.Title,
		txn.Description,
		txn.TypeHint,
		locale.FormatAmount(txn.Amount),
		txn.Currency,
		locale.FormatAmount(txn.NetAmount),
		locale.FormatAmount(txn.VATAmount),
		formatBool(txn.IsValidated),
	}
}

func invoiceToRow(invoice *domain.Invoice, customerNames map[string]string) []string {
	return []string{
		domain.FormatInvoiceNumber(invoice.DocumentNumber),
		invoice.IssueDate.Format("02.01.2006"),
		invoice.DueDate.Format("02.01.2006"),
		customerNames[invoice.CustomerID.String()],
		locale.FormatAmount(invoice.Subtotal),
		locale.FormatAmount(invoice.VATRate),
		locale.FormatAmount(invoice.VATAmount),
		locale.FormatAmount(invoice.Total),
		strconv.Itoa(len(invoice.Items)),
		formatBool(invoice.IsProject),
	}
}

func formatBool(v bool) string {
	if v {
		return "Ja"
	}
	return "Nein"
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for the Content-Disposition
// header. Format: {sanitized_name}_{YYYY-MM-DD}.csv
func BuildFilename(name string) string {
	return fmt.Sprintf("%s_%s.csv", SanitizeFilename(name), time.Now().Format("2006-01-02"))
}
