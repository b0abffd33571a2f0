package handler_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"belegwerk/internal/domain"
	"belegwerk/internal/handler"
	"belegwerk/internal/service"
	"belegwerk/mocks"
)

func TestBankHandler_ImportStatement_Success(t *testing.T) {
	bankSvc := new(mocks.MockBankService)
	h := handler.NewBankHandler(bankSvc)

	summary := &service.BankImportSummary{
		FileName:   "kontoauszug.pdf",
		Format:     "sparkasse",
		RowCount:   12,
		Confidence: domain.ConfidenceDeterministic,
	}
	bankSvc.On("ImportStatement", mock.Anything, "kontoauszug.pdf", mock.Anything).
		Return(summary, nil)

	body, contentType := multipartPDF(t, "file", "kontoauszug.pdf")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/bank-imports", body)
	c.Request.Header.Set("Content-Type", contentType)

	h.ImportStatement(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"row_count":12`)
	bankSvc.AssertExpectations(t)
}

func TestBankHandler_ImportStatement_Unrecognized(t *testing.T) {
	bankSvc := new(mocks.MockBankService)
	h := handler.NewBankHandler(bankSvc)

	bankSvc.On("ImportStatement", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domain.ErrUnrecognizedDocument)

	body, contentType := multipartPDF(t, "file", "unknown.pdf")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/bank-imports", body)
	c.Request.Header.Set("Content-Type", contentType)

	h.ImportStatement(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "UNRECOGNIZED_DOCUMENT")
}

func TestBankHandler_SetValidated_Success(t *testing.T) {
	bankSvc := new(mocks.MockBankService)
	h := handler.NewBankHandler(bankSvc)

	id := uuid.New()
	bankSvc.On("SetValidated", mock.Anything, id, true).Return(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPut,
		"/api/v1/bank-transactions/"+id.String()+"/validated",
		strings.NewReader(`{"validated":true}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.SetValidated(c)

	assert.Equal(t, http.StatusOK, w.Code)
	bankSvc.AssertExpectations(t)
}

func TestBankHandler_SetValidated_MissingBody(t *testing.T) {
	bankSvc := new(mocks.MockBankService)
	h := handler.NewBankHandler(bankSvc)

	id := uuid.New()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPut,
		"/api/v1/bank-transactions/"+id.String()+"/validated",
		bytes.NewReader(nil))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.SetValidated(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	bankSvc.AssertNotCalled(t, "SetValidated", mock.Anything, mock.Anything, mock.Anything)
}
