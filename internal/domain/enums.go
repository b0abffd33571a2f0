package domain

// DocumentType classifies an imported source document.
type DocumentType string

const (
	DocumentTypeInvoice       DocumentType = "invoice"
	DocumentTypeQuote         DocumentType = "quote"
	DocumentTypeBankStatement DocumentType = "bank_statement"
	DocumentTypeUnrecognized  DocumentType = "unrecognized"
)

// Confidence is the qualitative extraction-quality signal attached to a
// parsed document.
type Confidence string

const (
	ConfidenceDeterministic Confidence = "deterministic"
	ConfidenceAIAssisted    Confidence = "ai_assisted"
	ConfidenceFailed        Confidence = "failed"
)

// ExtractionTier tracks which stage of the tiered extraction strategy a
// document has reached.
type ExtractionTier string

const (
	TierNotTried      ExtractionTier = "not_tried"
	TierDeterministic ExtractionTier = "deterministic"
	TierAIAssisted    ExtractionTier = "ai_assisted"
)

// ImportState is the lifecycle of a staged import session.
type ImportState string

const (
	ImportStateStaged     ImportState = "staged"
	ImportStateCommitting ImportState = "committing"
	ImportStateCommitted  ImportState = "committed"
	ImportStateFailed     ImportState = "failed"
)

// BatchItemStatus reports the outcome of one file within a batch import.
type BatchItemStatus string

const (
	BatchItemSuccess BatchItemStatus = "success"
	BatchItemError   BatchItemStatus = "error"
)
