package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"belegwerk/internal/csvexport"
	"belegwerk/internal/service"
)

// ExportHandler renders committed records as CSV for the accountant handoff.
type ExportHandler struct {
	documentService service.DocumentService
	bankService     service.BankService
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(documentService service.DocumentService, bankService service.BankService) *ExportHandler {
	return &ExportHandler{documentService: documentService, bankService: bankService}
}

// ExportInvoices handles GET /api/v1/exports/invoices
func (h *ExportHandler) ExportInvoices(c *gin.Context) {
	from, to, ok := parseExportPeriod(c)
	if !ok {
		return
	}

	invoices, names, err := h.documentService.InvoicesForExport(c.Request.Context(), from, to)
	if err != nil {
		HandleError(c, err)
		return
	}

	var buf bytes.Buffer
	buf.Write(csvexport.BOM)
	w := csvexport.NewWriter(&buf)
	if err := w.WriteInvoiceHeader(); err != nil {
		HandleError(c, err)
		return
	}
	if err := w.WriteInvoices(invoices, names); err != nil {
		HandleError(c, err)
		return
	}
	w.Flush()
	if err := w.Error(); err != nil {
		HandleError(c, err)
		return
	}

	sendCSV(c, "rechnungen", buf.Bytes())
}

// ExportTransactions handles GET /api/v1/exports/bank-transactions
func (h *ExportHandler) ExportTransactions(c *gin.Context) {
	from, to, ok := parseExportPeriod(c)
	if !ok {
		return
	}

	txns, err := h.bankService.ListByPeriod(c.Request.Context(), from, to)
	if err != nil {
		HandleError(c, err)
		return
	}

	var buf bytes.Buffer
	buf.Write(csvexport.BOM)
	w := csvexport.NewWriter(&buf)
	if err := w.WriteTransactionHeader(); err != nil {
		HandleError(c, err)
		return
	}
	if err := w.WriteTransactions(txns); err != nil {
		HandleError(c, err)
		return
	}
	w.Flush()
	if err := w.Error(); err != nil {
		HandleError(c, err)
		return
	}

	sendCSV(c, "kontoumsaetze", buf.Bytes())
}

// parseExportPeriod reads the mandatory from/to query dates. to is exclusive,
// so a calendar month exports as from=2025-11-01&to=2025-12-01. On failure
// the error response has already been written.
func parseExportPeriod(c *gin.Context) (from, to time.Time, ok bool) {
	var err error
	from, err = time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_PERIOD", "invalid 'from' date: must be YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	to, err = time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_PERIOD", "invalid 'to' date: must be YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	if !to.After(from) {
		RespondError(c, http.StatusBadRequest, "INVALID_PERIOD", "'to' must be after 'from'")
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func sendCSV(c *gin.Context, name string, data []byte) {
	filename := csvexport.BuildFilename(name)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
