package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"belegwerk/internal/service"
)

// DocumentHandler handles committed invoice and quote record endpoints.
type DocumentHandler struct {
	documentService service.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documentService service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// ListInvoices handles GET /api/v1/invoices
func (h *DocumentHandler) ListInvoices(c *gin.Context) {
	offset, limit := parsePagination(c)

	invoices, total, err := h.documentService.ListInvoices(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, invoices, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetInvoice handles GET /api/v1/invoices/:number
func (h *DocumentHandler) GetInvoice(c *gin.Context) {
	number, ok := parseDocumentNumber(c)
	if !ok {
		return
	}

	invoice, err := h.documentService.GetInvoiceByNumber(c.Request.Context(), number)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, invoice)
}

// ListQuotes handles GET /api/v1/quotes
func (h *DocumentHandler) ListQuotes(c *gin.Context) {
	offset, limit := parsePagination(c)

	quotes, total, err := h.documentService.ListQuotes(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, quotes, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetQuote handles GET /api/v1/quotes/:number
func (h *DocumentHandler) GetQuote(c *gin.Context) {
	number, ok := parseDocumentNumber(c)
	if !ok {
		return
	}

	quote, err := h.documentService.GetQuoteByNumber(c.Request.Context(), number)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, quote)
}

// parseDocumentNumber reads the :number path parameter as the bare sequence
// integer (42, not "RE-000042"). On failure the error response has already
// been written.
func parseDocumentNumber(c *gin.Context) (int64, bool) {
	number, err := strconv.ParseInt(c.Param("number"), 10, 64)
	if err != nil || number <= 0 {
		RespondError(c, http.StatusBadRequest, "INVALID_DOCUMENT_NUMBER", "document number must be a positive integer")
		return 0, false
	}
	return number, true
}
