package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ksc-migration/collections-api/internal/dto"
	apierrors "github.com/ksc-migration/collections-api/internal/errors"
	"github.com/ksc-migration/collections-api/internal/repository"
	"github.com/ksc-migration/collections-api/internal/services"
	"github.com/ksc-migration/collections-api/internal/utils"
)

// MemberHandler coordinates member HTTP handlers.
type MemberHandler struct {
	memberService *services.MemberService
}

// NewMemberHandler creates a new MemberHandler.
func NewMemberHandler(memberService *services.MemberService) *MemberHandler {
	return &MemberHandler{
		memberService: memberService,
	}
}

// memberRequest carries the writable member fields for create and update.
type memberRequest struct {
	Sno                  *int64   `json:"sno"`
	Name                 *string  `json:"name"`
	OrganizationID       *uint64  `json:"organization_id"`
	MemberCode           *int64   `json:"member_code"`
	FamilyID             *int64   `json:"family_id"`
	DefaultFamilyID      *int64   `json:"default_family_id"`
	OfficialMemberID     *int64   `json:"official_member_id"`
	Pledge               *float64 `json:"pledge"`
	GroupName            *string  `json:"group_name"`
	GroupAlias           *string  `json:"group_alias"`
	DefaultGroupAlias    *string  `json:"default_group_alias"`
	GroupLeaderID        *int64   `json:"group_leader_id"`
	DefaultGroupLeaderID *int64   `json:"default_group_leader_id"`
	Status               *string  `json:"status"`
	Phone                *string  `json:"phone"`
	Phone2               *string  `json:"phone2"`
	Email                *string  `json:"email"`
	Residence            *string  `json:"residence"`
}

func (r memberRequest) toInput() services.MemberInput {
	return services.MemberInput{
		Sno:                  r.Sno,
		Name:                 r.Name,
		OrganizationID:       r.OrganizationID,
		MemberCode:           r.MemberCode,
		FamilyID:             r.FamilyID,
		DefaultFamilyID:      r.DefaultFamilyID,
		OfficialMemberID:     r.OfficialMemberID,
		Pledge:               r.Pledge,
		GroupName:            r.GroupName,
		GroupAlias:           r.GroupAlias,
		DefaultGroupAlias:    r.DefaultGroupAlias,
		GroupLeaderID:        r.GroupLeaderID,
		DefaultGroupLeaderID: r.DefaultGroupLeaderID,
		Status:               r.Status,
		Phone:                r.Phone,
		Phone2:               r.Phone2,
		Email:                r.Email,
		Residence:            r.Residence,
	}
}

// ListMembers returns members, filtered by an optional query matching the
// name as a substring or the member code exactly when numeric.
func (h *MemberHandler) ListMembers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	members, total, err := h.memberService.ListMembers(repository.MemberFilter{
		Query:    strings.TrimSpace(c.Query("q")),
		Page:     params.Page,
		PageSize: params.Limit,
	})
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.MemberListResponse{
		Members:  members,
		Total:    total,
		Page:     params.Page,
		PageSize: params.Limit,
	})
}

// CreateMember creates a member, allocating its sequence number.
func (h *MemberHandler) CreateMember(c *gin.Context) {
	var req memberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	member, err := h.memberService.CreateMember(req.toInput())
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, member)
}

// UpdateMember replaces a member's fields.
func (h *MemberHandler) UpdateMember(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid member ID")
		return
	}

	var req memberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	member, err := h.memberService.UpdateMember(id, req.toInput())
	if err != nil {
		if errors.Is(err, services.ErrMemberNotFound) {
			apierrors.NotFound(c, "Member not found")
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, member)
}
