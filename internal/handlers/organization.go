package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/ksc-migration/collections-api/internal/errors"
	"github.com/ksc-migration/collections-api/internal/repository"
)

// OrganizationHandler serves the organization reference list.
type OrganizationHandler struct {
	orgRepo repository.OrganizationRepository
}

// NewOrganizationHandler creates a new OrganizationHandler.
func NewOrganizationHandler(orgRepo repository.OrganizationRepository) *OrganizationHandler {
	return &OrganizationHandler{
		orgRepo: orgRepo,
	}
}

// ListOrganizations returns all organizations.
func (h *OrganizationHandler) ListOrganizations(c *gin.Context) {
	orgs, err := h.orgRepo.List()
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, orgs)
}
