package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/ksc-migration/collections-api/internal/errors"
	"github.com/ksc-migration/collections-api/internal/ingest"
	"github.com/ksc-migration/collections-api/internal/middleware"
	"github.com/ksc-migration/collections-api/internal/services"
)

// CollectionHandler coordinates collection record and reference HTTP
// handlers.
type CollectionHandler struct {
	collectionService *services.CollectionService
	ingestService     *services.IngestService
}

// NewCollectionHandler creates a new CollectionHandler.
func NewCollectionHandler(collectionService *services.CollectionService, ingestService *services.IngestService) *CollectionHandler {
	return &CollectionHandler{
		collectionService: collectionService,
		ingestService:     ingestService,
	}
}

// CreateRecord inserts a single collection record through the same
// prepare/validate pipeline as a batch.
func (h *CollectionHandler) CreateRecord(c *gin.Context) {
	var row ingest.Row
	if err := c.ShouldBindJSON(&row); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	result, rowErrs, err := h.ingestService.IngestBatch([]ingest.Row{row}, middleware.GetIdentity(c))
	if err != nil {
		respondIngestError(c, err)
		return
	}
	if len(rowErrs) > 0 {
		apierrors.UnprocessableEntity(c, "Record failed validation", rowErrs[0].Errors)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// UpdateRecord applies a partial update restricted to known columns.
func (h *CollectionHandler) UpdateRecord(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid record ID")
		return
	}

	var updates map[string]any
	if err := c.ShouldBindJSON(&updates); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	fieldErrs, err := h.collectionService.UpdateRecord(id, updates)
	if err != nil {
		if errors.Is(err, services.ErrCollectionNotFound) {
			apierrors.NotFound(c, "Collection record not found")
			return
		}
		apierrors.InternalError(c, "")
		return
	}
	if len(fieldErrs) > 0 {
		apierrors.UnprocessableEntity(c, "Update failed validation", fieldErrs)
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// Report returns collection records in an inclusive date range on the
// collection date. A date-only end bound covers that whole day.
func (h *CollectionHandler) Report(c *gin.Context) {
	from, err := parseReportBound(c.Query("start_date"), false)
	if err != nil {
		apierrors.BadRequest(c, "Invalid start_date")
		return
	}
	to, err := parseReportBound(c.Query("end_date"), true)
	if err != nil {
		apierrors.BadRequest(c, "Invalid end_date")
		return
	}

	records, err := h.collectionService.Report(from, to)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, records)
}

// parseReportBound parses a report range bound. A date without a time part
// on the end side is pushed to the last second of that day, so end_date is
// inclusive of the whole date.
func parseReportBound(value string, end bool) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}

	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	if end {
		t = t.Add(24*time.Hour - time.Second)
	}
	return &t, nil
}

// ListCodes returns all collection code labels.
func (h *CollectionHandler) ListCodes(c *gin.Context) {
	codes, err := h.collectionService.ListCodes()
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, codes)
}

// CreateCode creates a collection code label.
func (h *CollectionHandler) CreateCode(c *gin.Context) {
	type CreateCodeRequest struct {
		ColumnName string  `json:"column_name" binding:"required"`
		Code       *string `json:"code"`
	}

	var req CreateCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	code, err := h.collectionService.CreateCode(req.ColumnName, req.Code)
	if err != nil {
		if errors.Is(err, services.ErrInvalidColumnName) {
			apierrors.BadRequest(c, "Column name cannot be empty")
			return
		}
		apierrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusCreated, code)
}

// UpdateCode updates a collection code label.
func (h *CollectionHandler) UpdateCode(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid code ID")
		return
	}

	type UpdateCodeRequest struct {
		Code *string `json:"code"`
	}

	var req UpdateCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	code, err := h.collectionService.UpdateCode(id, req.Code)
	if err != nil {
		if errors.Is(err, services.ErrCodeNotFound) {
			apierrors.NotFound(c, "Collection code not found")
			return
		}
		apierrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, code)
}

// GetHeaderMappings returns the saved mappings for a comma-separated list
// of headers.
func (h *CollectionHandler) GetHeaderMappings(c *gin.Context) {
	var headers []string
	for _, header := range strings.Split(c.Query("headers"), ",") {
		if header = strings.TrimSpace(header); header != "" {
			headers = append(headers, header)
		}
	}

	mappings, err := h.collectionService.HeaderMappings(headers)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, mappings)
}

// SaveHeaderMappings upserts header -> column mappings.
func (h *CollectionHandler) SaveHeaderMappings(c *gin.Context) {
	var mappings map[string]string
	if err := c.ShouldBindJSON(&mappings); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.collectionService.SaveHeaderMappings(mappings); err != nil {
		apierrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": len(mappings)})
}
