package domain

import "errors"

var (
	ErrUnreadablePDF        = errors.New("pdf is corrupt or has no extractable text layer")
	ErrUnparseableValue     = errors.New("value could not be normalized")
	ErrUnrecognizedDocument = errors.New("document not recognized")
	ErrVisionUnavailable    = errors.New("vision extraction service unavailable")
	ErrSessionNotFound      = errors.New("import session not found")
	ErrSessionExpired       = errors.New("import session expired")
	ErrStagedInvalid        = errors.New("staged document failed validation")
	ErrCommitConflict       = errors.New("commit conflict")
	ErrNotStaged            = errors.New("import session is not in staged state")
	ErrCustomerNotFound     = errors.New("customer not found")
	ErrDocumentNotFound     = errors.New("document not found")
	ErrUnsupportedFileType  = errors.New("unsupported file type")
	ErrInvalidInput         = errors.New("invalid input")
	ErrArchiveFailed        = errors.New("document archive upload failed")
)
