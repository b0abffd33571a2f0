package staging

import (
	"fmt"
	"strings"

	"belegwerk/internal/domain"
)

// Validate checks that a staged session carries everything a committed record
// needs. It returns ErrStagedInvalid wrapping the list of failed checks, so
// the reviewer sees every problem at once instead of one per attempt.
func Validate(staged *domain.StagedImport) error {
	var problems []string

	doc := &staged.Document
	if doc.Type != domain.DocumentTypeInvoice && doc.Type != domain.DocumentTypeQuote {
		problems = append(problems, fmt.Sprintf("document type %q cannot be committed", doc.Type))
	}

	switch {
	case staged.Candidate.ExistingID != nil:
	case staged.Candidate.Draft != nil && strings.TrimSpace(staged.Candidate.Draft.Name) != "":
	default:
		problems = append(problems, "customer name is required")
	}

	f := &doc.Fields
	if f.IssueDate == nil {
		problems = append(problems, "issue date is required")
	}
	if f.DueDate == nil {
		problems = append(problems, "due date is required")
	} else if f.IssueDate != nil && f.DueDate.Before(*f.IssueDate) {
		problems = append(problems, "due date precedes issue date")
	}
	if len(f.Items) == 0 {
		problems = append(problems, "at least one line item is required")
	}
	for i, item := range f.Items {
		if strings.TrimSpace(item.Description) == "" {
			problems = append(problems, fmt.Sprintf("line item %d has no description", i+1))
		}
		if !item.Quantity.IsPositive() {
			problems = append(problems, fmt.Sprintf("line item %d has non-positive quantity", i+1))
		}
	}
	if f.Total.IsNegative() {
		problems = append(problems, "total must not be negative")
	}
	if f.IsProject && (f.ServiceStart == nil || f.ServiceEnd == nil || f.Location == "") {
		problems = append(problems, "project documents need a service period and location")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrStagedInvalid, strings.Join(problems, "; "))
	}
	return nil
}
