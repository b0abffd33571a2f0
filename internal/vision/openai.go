// Package vision is the model-assisted extraction tier. It renders document
// pages to images and asks a vision-capable chat model for the structured
// fields the deterministic tier could not recover.
package vision

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/shopspring/decimal"

	"belegwerk/internal/config"
	"belegwerk/internal/domain"
	"belegwerk/internal/port"
)

// Extractor implements port.VisionExtractor using the OpenAI Chat Completions
// API.
type Extractor struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewExtractor creates a vision extractor from the vision config section.
func NewExtractor(cfg *config.VisionConfig) *Extractor {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4o
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Extractor{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   model,
		timeout: timeout,
	}
}

func (e *Extractor) Extract(ctx context.Context, input port.VisionInput) (*domain.ParsedDocument, error) {
	if len(input.Pages) == 0 {
		return nil, fmt.Errorf("vision.Extractor: no pages rendered: %w", domain.ErrVisionUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	parts := make([]openai.ChatMessagePart, 0, len(input.Pages)+1)
	for _, page := range input.Pages {
		encoded := base64.StdEncoding.EncodeToString(page)
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL:    fmt.Sprintf("data:image/png;base64,%s", encoded),
				Detail: openai.ImageURLDetailHigh,
			},
		})
	}
	parts = append(parts, openai.ChatMessagePart{
		Type: openai.ChatMessagePartTypeText,
		Text: BuildExtractionPrompt(),
	})

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:         openai.ChatMessageRoleUser,
				MultiContent: parts,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		log.Printf("vision.Extractor: API call failed for %s: %v", input.FileName, err)
		return nil, fmt.Errorf("vision.Extract: %v: %w", err, domain.ErrVisionUnavailable)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("vision.Extract: empty response: %w", domain.ErrVisionUnavailable)
	}

	doc, err := parseModelOutput(resp.Choices[0].Message.Content)
	if err != nil {
		log.Printf("vision.Extractor: unusable model output for %s: %v", input.FileName, err)
		return nil, fmt.Errorf("vision.Extract: %v: %w", err, domain.ErrVisionUnavailable)
	}
	doc.RawText = input.RawText
	return doc, nil
}

// modelOutput mirrors the JSON schema given in the prompt. Amounts arrive as
// plain decimals, dates as YYYY-MM-DD strings.
type modelOutput struct {
	DocumentType   string          `json:"document_type"`
	DocumentNumber string          `json:"document_number"`
	IssueDate      string          `json:"issue_date"`
	DueDate        string          `json:"due_date"`
	Customer       modelCustomer   `json:"customer"`
	Items          []modelItem     `json:"items"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	VATRate        decimal.Decimal `json:"vat_rate"`
	VATAmount      decimal.Decimal `json:"vat_amount"`
	Total          decimal.Decimal `json:"total"`
	ServiceStart   string          `json:"service_start"`
	ServiceEnd     string          `json:"service_end"`
	Location       string          `json:"location"`
	Notes          string          `json:"notes"`
}

type modelCustomer struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Street    string `json:"street"`
	Zip       string `json:"zip"`
	City      string `json:"city"`
	TaxNumber string `json:"tax_number"`
}

type modelItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

func parseModelOutput(content string) (*domain.ParsedDocument, error) {
	content = stripCodeFence(content)

	var out modelOutput
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return nil, fmt.Errorf("parsing model JSON: %w", err)
	}

	docType := domain.DocumentType(out.DocumentType)
	switch docType {
	case domain.DocumentTypeInvoice, domain.DocumentTypeQuote:
	default:
		docType = domain.DocumentTypeUnrecognized
	}

	doc := &domain.ParsedDocument{
		Type:       docType,
		Tier:       domain.TierAIAssisted,
		Confidence: domain.ConfidenceAIAssisted,
	}
	if docType == domain.DocumentTypeUnrecognized {
		doc.Confidence = domain.ConfidenceFailed
		doc.ReviewHints = append(doc.ReviewHints, "document type could not be determined")
		return doc, nil
	}

	f := &doc.Fields
	f.DocumentNumber = out.DocumentNumber
	f.IssueDate = parseISODate(out.IssueDate)
	f.DueDate = parseISODate(out.DueDate)
	f.ServiceStart = parseISODate(out.ServiceStart)
	f.ServiceEnd = parseISODate(out.ServiceEnd)
	f.Location = strings.TrimSpace(out.Location)
	f.Notes = strings.TrimSpace(out.Notes)
	f.IsProject = f.ServiceStart != nil && f.ServiceEnd != nil && f.Location != ""

	f.Customer = domain.CustomerBlock{
		Name:      strings.TrimSpace(out.Customer.Name),
		Email:     strings.ToLower(strings.TrimSpace(out.Customer.Email)),
		Street:    strings.TrimSpace(out.Customer.Street),
		Zip:       strings.TrimSpace(out.Customer.Zip),
		City:      strings.TrimSpace(out.Customer.City),
		TaxNumber: strings.TrimSpace(out.Customer.TaxNumber),
	}

	for _, it := range out.Items {
		if strings.TrimSpace(it.Description) == "" {
			continue
		}
		item := domain.LineItem{
			Description: strings.TrimSpace(it.Description),
			Quantity:    it.Quantity,
			Unit:        strings.TrimSpace(it.Unit),
			UnitPrice:   it.UnitPrice,
			Total:       it.Total,
		}
		if item.Total.IsZero() && !item.Quantity.IsZero() {
			item.Total = item.ComputedTotal()
		}
		f.Items = append(f.Items, item)
	}
	if len(f.Items) == 0 {
		return nil, fmt.Errorf("model returned no line items")
	}

	f.Subtotal = out.Subtotal
	f.VATRate = out.VATRate
	f.VATAmount = out.VATAmount
	f.Total = out.Total
	if f.Total.IsZero() {
		f.Total = f.Subtotal.Add(f.VATAmount)
	}
	return doc, nil
}

// stripCodeFence tolerates models that wrap the JSON object in markdown
// fences despite the prompt.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func parseISODate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}
