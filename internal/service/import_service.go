package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"belegwerk/internal/docparse"
	"belegwerk/internal/domain"
	"belegwerk/internal/pdftext"
	"belegwerk/internal/port"
	"belegwerk/internal/resolver"
	"belegwerk/internal/staging"
)

// ImportConfig holds the tuning knobs of the import pipeline.
type ImportConfig struct {
	BatchConcurrency int
	MaxBatchSize     int
	VisionMaxPages   int
}

// ImportFileInput is one uploaded file.
type ImportFileInput struct {
	FileName string
	Data     []byte
}

// ImportService runs the extraction pipeline and manages staged sessions.
type ImportService interface {
	ImportFile(ctx context.Context, input ImportFileInput) (*domain.StagedImport, error)
	ImportBatch(ctx context.Context, files []ImportFileInput) []domain.BatchItemResult
	GetSession(sessionID uuid.UUID) (domain.StagedImport, error)
	UpdateSession(sessionID uuid.UUID, doc domain.ParsedDocument, candidate domain.CustomerMatchCandidate) (domain.StagedImport, error)
	CancelSession(sessionID uuid.UUID) error
}

type importService struct {
	stage    *staging.Store
	resolver *resolver.Resolver
	vision   port.VisionExtractor // nil disables the AI tier
	cfg      ImportConfig
}

// NewImportService creates a new ImportService implementation. vision may be
// nil, in which case documents the deterministic tier cannot handle stay at
// failed confidence and wait for manual entry.
func NewImportService(stage *staging.Store, res *resolver.Resolver, vision port.VisionExtractor, cfg ImportConfig) ImportService {
	if cfg.BatchConcurrency <= 0 {
		cfg.BatchConcurrency = 4
	}
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = 50
	}
	if cfg.VisionMaxPages <= 0 {
		cfg.VisionMaxPages = 10
	}
	return &importService{stage: stage, resolver: res, vision: vision, cfg: cfg}
}

var pdfMagic = []byte("%PDF-")

// ImportFile runs one document through the tiered extraction pipeline and
// stages the result. The pipeline degrades instead of failing: a document
// neither tier can read is staged with failed confidence so the reviewer can
// fill the fields by hand. Only a non-PDF upload is rejected outright.
func (s *importService) ImportFile(ctx context.Context, input ImportFileInput) (*domain.StagedImport, error) {
	if !bytes.HasPrefix(input.Data, pdfMagic) {
		return nil, fmt.Errorf("importService.ImportFile: %s: %w", input.FileName, domain.ErrUnsupportedFileType)
	}

	doc := s.extract(ctx, input)

	candidate, err := s.resolver.Resolve(ctx, doc.Fields.Customer)
	if err != nil {
		return nil, fmt.Errorf("importService.ImportFile: %w", err)
	}

	staged := domain.StagedImport{
		FileName:  input.FileName,
		FileBytes: input.Data,
		Document:  doc,
		Candidate: candidate,
	}
	id := s.stage.Stage(staged)

	out, err := s.stage.Get(id)
	if err != nil {
		return nil, fmt.Errorf("importService.ImportFile: %w", err)
	}
	log.Printf("importService: staged %s as session %s (type=%s, confidence=%s, tier=%s)",
		input.FileName, id, doc.Type, doc.Confidence, doc.Tier)
	return &out, nil
}

// extract runs the deterministic tier and escalates to the vision tier when
// the text layer is unreadable or the parse came back at failed confidence.
func (s *importService) extract(ctx context.Context, input ImportFileInput) domain.ParsedDocument {
	var doc domain.ParsedDocument
	var rawText string

	text, err := pdftext.ExtractText(input.Data)
	if err != nil {
		doc = domain.ParsedDocument{
			Type:        domain.DocumentTypeUnrecognized,
			Confidence:  domain.ConfidenceFailed,
			Tier:        domain.TierNotTried,
			ReviewHints: []string{"pdf has no readable text layer"},
		}
	} else {
		rawText = text.Text()
		doc = docparse.Extract(rawText)
	}

	if doc.Confidence != domain.ConfidenceFailed || s.vision == nil {
		return doc
	}

	visionDoc, verr := s.visionExtract(ctx, input, rawText)
	if verr != nil {
		log.Printf("importService: vision tier failed for %s: %v", input.FileName, verr)
		doc.ReviewHints = append(doc.ReviewHints, "automatic extraction failed, manual entry required")
		return doc
	}
	return *visionDoc
}

func (s *importService) visionExtract(ctx context.Context, input ImportFileInput, rawText string) (*domain.ParsedDocument, error) {
	pages, err := pdftext.RenderPages(input.Data, s.cfg.VisionMaxPages)
	if err != nil {
		return nil, fmt.Errorf("rendering pages: %w", err)
	}
	return s.vision.Extract(ctx, port.VisionInput{
		FileName: input.FileName,
		Pages:    pages,
		RawText:  rawText,
	})
}

// ImportBatch runs up to BatchConcurrency files in parallel. Failures are
// isolated per file: one corrupt PDF never aborts its siblings. Files past
// MaxBatchSize are not processed but still get an error result, so callers
// always receive one result per submitted file.
func (s *importService) ImportBatch(ctx context.Context, files []ImportFileInput) []domain.BatchItemResult {
	results := make([]domain.BatchItemResult, len(files))
	for i := s.cfg.MaxBatchSize; i < len(files); i++ {
		results[i] = domain.BatchItemResult{
			FileName: files[i].FileName,
			Status:   domain.BatchItemError,
			Message:  fmt.Sprintf("batch limit of %d files exceeded", s.cfg.MaxBatchSize),
		}
	}
	if len(files) > s.cfg.MaxBatchSize {
		files = files[:s.cfg.MaxBatchSize]
	}

	sem := make(chan struct{}, s.cfg.BatchConcurrency)
	var wg sync.WaitGroup

	for i := range files {
		i := i
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			staged, err := s.ImportFile(ctx, files[i])
			if err != nil {
				results[i] = domain.BatchItemResult{
					FileName: files[i].FileName,
					Status:   domain.BatchItemError,
					Message:  batchMessage(err),
				}
				return
			}
			results[i] = domain.BatchItemResult{
				FileName:  files[i].FileName,
				Status:    domain.BatchItemSuccess,
				SessionID: &staged.SessionID,
			}
		}()
	}
	wg.Wait()
	return results
}

func (s *importService) GetSession(sessionID uuid.UUID) (domain.StagedImport, error) {
	return s.stage.Get(sessionID)
}

func (s *importService) UpdateSession(sessionID uuid.UUID, doc domain.ParsedDocument, candidate domain.CustomerMatchCandidate) (domain.StagedImport, error) {
	return s.stage.Update(sessionID, doc, candidate)
}

func (s *importService) CancelSession(sessionID uuid.UUID) error {
	return s.stage.Cancel(sessionID)
}

// batchMessage maps pipeline errors to short reviewer-facing messages.
func batchMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return "only PDF files are supported"
	default:
		return err.Error()
	}
}
