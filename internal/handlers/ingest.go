package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ksc-migration/collections-api/internal/dto"
	apierrors "github.com/ksc-migration/collections-api/internal/errors"
	"github.com/ksc-migration/collections-api/internal/ingest"
	"github.com/ksc-migration/collections-api/internal/middleware"
	"github.com/ksc-migration/collections-api/internal/services"
)

// IngestHandler coordinates the upload and batch-insert HTTP handlers.
type IngestHandler struct {
	ingestService *services.IngestService
}

// NewIngestHandler creates a new IngestHandler.
func NewIngestHandler(ingestService *services.IngestService) *IngestHandler {
	return &IngestHandler{
		ingestService: ingestService,
	}
}

// Upload ingests a spreadsheet or CSV file end to end: parse, map columns,
// drop rows without a serial cell, then run the batch pipeline. Any invalid
// row rejects the whole file.
func (h *IngestHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		apierrors.BadRequest(c, "File is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		apierrors.BadRequest(c, "Failed to open uploaded file")
		return
	}
	defer file.Close()

	result, rowErrs, err := h.ingestService.IngestFile(fileHeader.Filename, file, middleware.GetIdentity(c))
	if err != nil {
		respondIngestError(c, err)
		return
	}
	if len(rowErrs) > 0 {
		apierrors.UnprocessableEntity(c, "Some rows failed validation", dto.BatchRejectionResponse{
			Received:         result.Received,
			ValidationErrors: rowErrs,
		})
		return
	}

	c.JSON(http.StatusCreated, result)
}

// UploadHeaders previews a spreadsheet or CSV file without inserting
// anything: its headers, rows, saved mapping suggestions, and the guessed
// serial column.
func (h *IngestHandler) UploadHeaders(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		apierrors.BadRequest(c, "File is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		apierrors.BadRequest(c, "Failed to open uploaded file")
		return
	}
	defer file.Close()

	preview, err := h.ingestService.PreviewUpload(fileHeader.Filename, file)
	if err != nil {
		respondIngestError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUploadPreviewResponse(preview, middleware.GetIdentity(c)))
}

// BulkInsert ingests loose JSON rows. The batch is all-or-nothing: any row
// error returns 422 with the full error list and the rows as received.
func (h *IngestHandler) BulkInsert(c *gin.Context) {
	var rows []ingest.Row
	if err := c.ShouldBindJSON(&rows); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	result, rowErrs, err := h.ingestService.IngestBatch(rows, middleware.GetIdentity(c))
	if err != nil {
		respondIngestError(c, err)
		return
	}
	if len(rowErrs) > 0 {
		apierrors.UnprocessableEntity(c, "Some rows failed validation", dto.BatchRejectionResponse{
			Received:         result.Received,
			ValidationErrors: rowErrs,
			Rows:             rows,
		})
		return
	}

	c.JSON(http.StatusCreated, result)
}

// Validate runs the pipeline without committing: rows get their defaults,
// resolution, and serial synthesis applied, then every schema violation is
// reported.
func (h *IngestHandler) Validate(c *gin.Context) {
	var rows []ingest.Row
	if err := c.ShouldBindJSON(&rows); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	prepared, err := h.ingestService.PrepareRows(rows, middleware.GetIdentity(c))
	if err != nil {
		respondIngestError(c, err)
		return
	}

	valid, rowErrs := h.ingestService.ValidateRows(prepared)
	c.JSON(http.StatusOK, dto.ValidationResponse{
		Received: len(rows),
		Valid:    len(valid),
		Errors:   rowErrs,
		Rows:     valid,
	})
}

func respondIngestError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNoRows):
		apierrors.BadRequest(c, "No rows provided")
	case errors.Is(err, ingest.ErrEmptyUpload):
		apierrors.BadRequest(c, "Uploaded file contains no rows")
	case errors.Is(err, ingest.ErrUnreadableUpload):
		apierrors.BadRequest(c, "Could not parse uploaded file")
	default:
		apierrors.InternalError(c, "")
	}
}
