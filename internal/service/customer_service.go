package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"belegwerk/internal/domain"
	"belegwerk/internal/port"
)

// CustomerService manages the customer registry.
type CustomerService interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
	List(ctx context.Context, offset, limit int) ([]domain.Customer, int, error)
	Update(ctx context.Context, customer *domain.Customer) error
}

type customerService struct {
	customers port.CustomerRepository
}

// NewCustomerService creates a new CustomerService implementation.
func NewCustomerService(customers port.CustomerRepository) CustomerService {
	return &customerService{customers: customers}
}

func (s *customerService) Create(ctx context.Context, customer *domain.Customer) error {
	customer.Name = strings.TrimSpace(customer.Name)
	if customer.Name == "" {
		return fmt.Errorf("customerService.Create: name is required: %w", domain.ErrInvalidInput)
	}
	customer.Email = strings.ToLower(strings.TrimSpace(customer.Email))
	return s.customers.Create(ctx, customer)
}

func (s *customerService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	return s.customers.GetByID(ctx, id)
}

func (s *customerService) List(ctx context.Context, offset, limit int) ([]domain.Customer, int, error) {
	offset, limit = clampPagination(offset, limit)
	return s.customers.List(ctx, offset, limit)
}

func (s *customerService) Update(ctx context.Context, customer *domain.Customer) error {
	customer.Name = strings.TrimSpace(customer.Name)
	if customer.Name == "" {
		return fmt.Errorf("customerService.Update: name is required: %w", domain.ErrInvalidInput)
	}
	customer.Email = strings.ToLower(strings.TrimSpace(customer.Email))
	return s.customers.Update(ctx, customer)
}
