package handler

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"belegwerk/internal/domain"
	"belegwerk/internal/service"
)

// ImportHandler handles document import and staged session endpoints.
type ImportHandler struct {
	importService service.ImportService
	commitService service.CommitService
	maxFileBytes  int64
}

// NewImportHandler creates a new ImportHandler. maxFileSizeMB caps a single
// uploaded file; zero falls back to 25 MB.
func NewImportHandler(importService service.ImportService, commitService service.CommitService, maxFileSizeMB int) *ImportHandler {
	if maxFileSizeMB <= 0 {
		maxFileSizeMB = 25
	}
	return &ImportHandler{
		importService: importService,
		commitService: commitService,
		maxFileBytes:  int64(maxFileSizeMB) << 20,
	}
}

// Import handles POST /api/v1/imports
func (h *ImportHandler) Import(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	data, ok := h.readUpload(c, file, header)
	if !ok {
		return
	}

	staged, err := h.importService.ImportFile(c.Request.Context(), service.ImportFileInput{
		FileName: header.Filename,
		Data:     data,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, staged)
}

// ImportBatch handles POST /api/v1/imports/batch
func (h *ImportHandler) ImportBatch(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_FORM", "multipart form could not be parsed")
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		RespondError(c, http.StatusBadRequest, "MISSING_FILES", "files field is required")
		return
	}

	inputs := make([]service.ImportFileInput, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_FORM", "uploaded file could not be read")
			return
		}
		data, ok := h.readUpload(c, file, header)
		_ = file.Close()
		if !ok {
			return
		}
		inputs = append(inputs, service.ImportFileInput{FileName: header.Filename, Data: data})
	}

	results := h.importService.ImportBatch(c.Request.Context(), inputs)
	RespondOK(c, results)
}

// GetSession handles GET /api/v1/imports/:id
func (h *ImportHandler) GetSession(c *gin.Context) {
	sessionID, ok := parseSessionID(c)
	if !ok {
		return
	}

	staged, err := h.importService.GetSession(sessionID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, staged)
}

// UpdateSessionRequest is the reviewer's correction payload. The whole
// document and candidate are replaced, never patched field by field.
type UpdateSessionRequest struct {
	Document  domain.ParsedDocument         `json:"document"`
	Candidate domain.CustomerMatchCandidate `json:"candidate"`
}

// UpdateSession handles PUT /api/v1/imports/:id
func (h *ImportHandler) UpdateSession(c *gin.Context) {
	sessionID, ok := parseSessionID(c)
	if !ok {
		return
	}

	var req UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	staged, err := h.importService.UpdateSession(sessionID, req.Document, req.Candidate)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, staged)
}

// Commit handles POST /api/v1/imports/:id/commit
func (h *ImportHandler) Commit(c *gin.Context) {
	sessionID, ok := parseSessionID(c)
	if !ok {
		return
	}

	staged, err := h.commitService.Commit(c.Request.Context(), sessionID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, staged)
}

// CancelSession handles DELETE /api/v1/imports/:id
func (h *ImportHandler) CancelSession(c *gin.Context) {
	sessionID, ok := parseSessionID(c)
	if !ok {
		return
	}

	if err := h.importService.CancelSession(sessionID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"cancelled": true})
}

// readUpload drains one multipart file within the size cap. On failure the
// error response has already been written.
func (h *ImportHandler) readUpload(c *gin.Context, file multipart.File, header *multipart.FileHeader) ([]byte, bool) {
	if header.Size > h.maxFileBytes {
		RespondError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size")
		return nil, false
	}
	data, err := io.ReadAll(io.LimitReader(file, h.maxFileBytes+1))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_FORM", "uploaded file could not be read")
		return nil, false
	}
	if int64(len(data)) > h.maxFileBytes {
		RespondError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size")
		return nil, false
	}
	return data, true
}

// parseSessionID reads the :id path parameter. On failure the error response
// has already been written.
func parseSessionID(c *gin.Context) (uuid.UUID, bool) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_SESSION_ID", "session id must be a valid UUID")
		return uuid.Nil, false
	}
	return sessionID, true
}
