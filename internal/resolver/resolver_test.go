package resolver_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"belegwerk/internal/domain"
	"belegwerk/internal/resolver"
	"belegwerk/mocks"
)

func TestResolve_ExactEmailMatch(t *testing.T) {
	repo := new(mocks.MockCustomerRepo)
	id := uuid.New()
	repo.On("GetByEmail", mock.Anything, "buchhaltung@acme.de").
		Return(&domain.Customer{ID: id, Name: "ACME GmbH"}, nil)

	candidate, err := resolver.New(repo).Resolve(context.Background(), domain.CustomerBlock{
		Name:  "ACME Gesellschaft",
		Email: "Buchhaltung@acme.de",
	})
	require.NoError(t, err)
	require.NotNil(t, candidate.ExistingID)
	assert.Equal(t, id, *candidate.ExistingID)
	assert.Nil(t, candidate.Draft)
	repo.AssertExpectations(t)
}

func TestResolve_ExactNameMatch(t *testing.T) {
	repo := new(mocks.MockCustomerRepo)
	id := uuid.New()
	repo.On("GetByEmail", mock.Anything, "neu@acme.de").
		Return(nil, domain.ErrCustomerNotFound)
	repo.On("GetByName", mock.Anything, "ACME GmbH").
		Return(&domain.Customer{ID: id, Name: "ACME GmbH"}, nil)

	candidate, err := resolver.New(repo).Resolve(context.Background(), domain.CustomerBlock{
		Name:  "ACME GmbH",
		Email: "neu@acme.de",
	})
	require.NoError(t, err)
	require.NotNil(t, candidate.ExistingID)
	assert.Equal(t, id, *candidate.ExistingID)
	repo.AssertExpectations(t)
}

func TestResolve_NameMatchCollapsesWhitespace(t *testing.T) {
	repo := new(mocks.MockCustomerRepo)
	id := uuid.New()
	repo.On("GetByName", mock.Anything, "ACME GmbH").
		Return(&domain.Customer{ID: id, Name: "ACME GmbH"}, nil)

	// Extracted text keeps layout artifacts: a tab and a doubled space.
	candidate, err := resolver.New(repo).Resolve(context.Background(), domain.CustomerBlock{
		Name: "  ACME \t GmbH ",
	})
	require.NoError(t, err)
	require.NotNil(t, candidate.ExistingID)
	assert.Equal(t, id, *candidate.ExistingID)
	repo.AssertExpectations(t)
}

func TestResolve_NoMatchYieldsDraftWithSuggestions(t *testing.T) {
	repo := new(mocks.MockCustomerRepo)
	near := domain.Customer{ID: uuid.New(), Name: "ACME GmbH"}
	far := domain.Customer{ID: uuid.New(), Name: "Beispiel AG"}
	repo.On("GetByName", mock.Anything, "ACME").
		Return(nil, domain.ErrCustomerNotFound)
	repo.On("List", mock.Anything, 0, 500).
		Return([]domain.Customer{near, far}, 2, nil)

	block := domain.CustomerBlock{Name: "ACME", Street: "Hauptstraße 5"}
	candidate, err := resolver.New(repo).Resolve(context.Background(), block)
	require.NoError(t, err)

	assert.Nil(t, candidate.ExistingID)
	require.NotNil(t, candidate.Draft)
	assert.Equal(t, block, *candidate.Draft)

	require.Len(t, candidate.Suggestions, 1)
	assert.Equal(t, near.ID, candidate.Suggestions[0].CustomerID)
	repo.AssertExpectations(t)
}

func TestResolve_EmptyBlock(t *testing.T) {
	repo := new(mocks.MockCustomerRepo)

	candidate, err := resolver.New(repo).Resolve(context.Background(), domain.CustomerBlock{})
	require.NoError(t, err)
	assert.Nil(t, candidate.ExistingID)
	require.NotNil(t, candidate.Draft)
	assert.Empty(t, candidate.Suggestions)
	repo.AssertExpectations(t)
}
