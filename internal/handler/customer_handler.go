package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"belegwerk/internal/domain"
	"belegwerk/internal/service"
)

// CustomerHandler handles customer registry endpoints.
type CustomerHandler struct {
	customerService service.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(customerService service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// CustomerRequest carries the editable customer fields.
type CustomerRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email"`
	Street    string `json:"street"`
	Zip       string `json:"zip"`
	City      string `json:"city"`
	TaxNumber string `json:"tax_number"`
}

// Create handles POST /api/v1/customers
func (h *CustomerHandler) Create(c *gin.Context) {
	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	customer := domain.Customer{
		Name:      req.Name,
		Email:     req.Email,
		Street:    req.Street,
		Zip:       req.Zip,
		City:      req.City,
		TaxNumber: req.TaxNumber,
	}
	if err := h.customerService.Create(c.Request.Context(), &customer); err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, customer)
}

// GetByID handles GET /api/v1/customers/:id
func (h *CustomerHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_CUSTOMER_ID", "customer id must be a valid UUID")
		return
	}

	customer, err := h.customerService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, customer)
}

// List handles GET /api/v1/customers
func (h *CustomerHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)

	customers, total, err := h.customerService.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, customers, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Update handles PUT /api/v1/customers/:id
func (h *CustomerHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_CUSTOMER_ID", "customer id must be a valid UUID")
		return
	}

	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	customer := domain.Customer{
		ID:        id,
		Name:      req.Name,
		Email:     req.Email,
		Street:    req.Street,
		Zip:       req.Zip,
		City:      req.City,
		TaxNumber: req.TaxNumber,
	}
	if err := h.customerService.Update(c.Request.Context(), &customer); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, customer)
}
