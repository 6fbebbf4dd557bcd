package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ksc-migration/collections-api/internal/dto"
	apierrors "github.com/ksc-migration/collections-api/internal/errors"
	"github.com/ksc-migration/collections-api/internal/middleware"
	"github.com/ksc-migration/collections-api/internal/services"
)

// UploaderHandler coordinates uploader credential HTTP handlers.
type UploaderHandler struct {
	uploaderService *services.UploaderService
}

// NewUploaderHandler creates a new UploaderHandler.
func NewUploaderHandler(uploaderService *services.UploaderService) *UploaderHandler {
	return &UploaderHandler{
		uploaderService: uploaderService,
	}
}

// CreateUploader mints a new API key. The key is only returned here; later
// listings omit it.
func (h *UploaderHandler) CreateUploader(c *gin.Context) {
	type CreateUploaderRequest struct {
		Name           string  `json:"name" binding:"required"`
		OrganizationID *uint64 `json:"organization_id"`
	}

	var req CreateUploaderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	uploader, err := h.uploaderService.CreateUploader(services.CreateUploaderInput{
		Name:           req.Name,
		OrganizationID: req.OrganizationID,
	}, middleware.GetIdentity(c))
	if err != nil {
		if errors.Is(err, services.ErrInvalidUploaderName) {
			apierrors.BadRequest(c, "Uploader name cannot be empty")
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, dto.ToUploaderDTO(*uploader, true))
}

// ListUploaders returns all uploaders without their keys.
func (h *UploaderHandler) ListUploaders(c *gin.Context) {
	uploaders, err := h.uploaderService.ListUploaders()
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	dtos := make([]dto.UploaderDTO, len(uploaders))
	for i, uploader := range uploaders {
		dtos[i] = dto.ToUploaderDTO(uploader, false)
	}
	c.JSON(http.StatusOK, dtos)
}

// GetUploader resolves an API key to its uploader.
func (h *UploaderHandler) GetUploader(c *gin.Context) {
	uploader, err := h.uploaderService.GetUploaderByKey(c.Param("api_key"))
	if err != nil {
		if errors.Is(err, services.ErrUploaderNotFound) {
			apierrors.NotFound(c, "Uploader not found")
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToUploaderDTO(*uploader, false))
}
