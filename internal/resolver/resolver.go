// Package resolver matches an extracted customer block against the customer
// registry. Only exact matches resolve automatically; everything else becomes
// a draft with ranked suggestions for the reviewer.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"belegwerk/internal/domain"
	"belegwerk/internal/port"
)

const (
	maxSuggestions = 5
	// listPageSize bounds the registry scan used for fuzzy ranking.
	listPageSize = 500
)

// Resolver maps extracted customer blocks to registry entries.
type Resolver struct {
	customers port.CustomerRepository
}

func New(customers port.CustomerRepository) *Resolver {
	return &Resolver{customers: customers}
}

// normalize trims and collapses whitespace runs. Extracted text often carries
// layout artifacts like double spaces or tabs between words.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Resolve finds the registry entry for an extracted customer block. Matching
// is conservative: an exact email match wins, then an exact case-insensitive
// name match. Lookups normalize case and whitespace runs, nothing more;
// anything fuzzier is never auto-resolved and the block comes back as a
// draft with near-match suggestions attached so the reviewer decides.
func (r *Resolver) Resolve(ctx context.Context, block domain.CustomerBlock) (domain.CustomerMatchCandidate, error) {
	email := normalize(block.Email)
	name := normalize(block.Name)

	if email != "" {
		cust, err := r.customers.GetByEmail(ctx, strings.ToLower(email))
		if err == nil {
			return domain.CustomerMatchCandidate{ExistingID: &cust.ID}, nil
		}
		if !errors.Is(err, domain.ErrCustomerNotFound) {
			return domain.CustomerMatchCandidate{}, fmt.Errorf("resolver.Resolve: by email: %w", err)
		}
	}

	if name != "" {
		cust, err := r.customers.GetByName(ctx, name)
		if err == nil {
			return domain.CustomerMatchCandidate{ExistingID: &cust.ID}, nil
		}
		if !errors.Is(err, domain.ErrCustomerNotFound) {
			return domain.CustomerMatchCandidate{}, fmt.Errorf("resolver.Resolve: by name: %w", err)
		}
	}

	suggestions, err := r.suggest(ctx, name)
	if err != nil {
		return domain.CustomerMatchCandidate{}, err
	}

	draft := block
	return domain.CustomerMatchCandidate{
		Draft:       &draft,
		Suggestions: suggestions,
	}, nil
}

// suggest ranks registry names against the extracted name. Rank is the fuzzy
// edit distance; lower is closer.
func (r *Resolver) suggest(ctx context.Context, name string) ([]domain.CustomerSuggestion, error) {
	if strings.TrimSpace(name) == "" {
		return nil, nil
	}

	existing, _, err := r.customers.List(ctx, 0, listPageSize)
	if err != nil {
		return nil, fmt.Errorf("resolver.suggest: listing customers: %w", err)
	}

	var suggestions []domain.CustomerSuggestion
	for _, cust := range existing {
		rank := fuzzy.RankMatchNormalizedFold(name, cust.Name)
		if rank < 0 {
			rank = fuzzy.RankMatchNormalizedFold(cust.Name, name)
		}
		if rank < 0 {
			continue
		}
		suggestions = append(suggestions, domain.CustomerSuggestion{
			CustomerID: cust.ID,
			Name:       cust.Name,
			Rank:       rank,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Rank < suggestions[j].Rank
	})
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions, nil
}
