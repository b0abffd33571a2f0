package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"belegwerk/internal/service"
)

// BankHandler handles bank statement import and transaction endpoints.
type BankHandler struct {
	bankService service.BankService
}

// NewBankHandler creates a new BankHandler.
func NewBankHandler(bankService service.BankService) *BankHandler {
	return &BankHandler{bankService: bankService}
}

// ImportStatement handles POST /api/v1/bank-imports
func (h *BankHandler) ImportStatement(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_FORM", "uploaded file could not be read")
		return
	}

	summary, err := h.bankService.ImportStatement(c.Request.Context(), header.Filename, data)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, summary)
}

// List handles GET /api/v1/bank-transactions
func (h *BankHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)

	txns, total, err := h.bankService.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, txns, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// SetValidatedRequest marks a transaction as reviewed or reopens it.
type SetValidatedRequest struct {
	Validated *bool `json:"validated" binding:"required"`
}

// SetValidated handles PUT /api/v1/bank-transactions/:id/validated
func (h *BankHandler) SetValidated(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_TRANSACTION_ID", "transaction id must be a valid UUID")
		return
	}

	var req SetValidatedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := h.bankService.SetValidated(c.Request.Context(), id, *req.Validated); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"validated": *req.Validated})
}

// parsePagination reads offset/limit query parameters with defaults.
func parsePagination(c *gin.Context) (offset, limit int) {
	offset, limit = 0, 50
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	return offset, limit
}
