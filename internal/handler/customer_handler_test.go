package handler_test

import (
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
	"belegwerk/mocks"
)

func TestCustomerHandler_Create_Success(t *testing.T) {
	customerSvc := new(mocks.MockCustomerService)
	h := handler.NewCustomerHandler(customerSvc)

	customerSvc.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Customer) bool {
		return c.Name == "ACME GmbH" && c.Email == "buchhaltung@acme.de"
	})).Return(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/customers",
		strings.NewReader(`{"name":"ACME GmbH","email":"buchhaltung@acme.de"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	customerSvc.AssertExpectations(t)
}

func TestCustomerHandler_Create_MissingName(t *testing.T) {
	customerSvc := new(mocks.MockCustomerService)
	h := handler.NewCustomerHandler(customerSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/customers",
		strings.NewReader(`{"email":"x@y.de"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	customerSvc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCustomerHandler_GetByID_NotFound(t *testing.T) {
	customerSvc := new(mocks.MockCustomerService)
	h := handler.NewCustomerHandler(customerSvc)

	id := uuid.New()
	customerSvc.On("GetByID", mock.Anything, id).Return(nil, domain.ErrCustomerNotFound)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/customers/"+id.String(), http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.GetByID(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "CUSTOMER_NOT_FOUND")
}

func TestCustomerHandler_List_Defaults(t *testing.T) {
	customerSvc := new(mocks.MockCustomerService)
	h := handler.NewCustomerHandler(customerSvc)

	customerSvc.On("List", mock.Anything, 0, 50).
		Return([]domain.Customer{{ID: uuid.New(), Name: "ACME GmbH"}}, 1, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/customers", http.NoBody)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)
	customerSvc.AssertExpectations(t)
}
