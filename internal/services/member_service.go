package services

import (
	"errors"
	"fmt"

	"github.com/ksc-migration/collections-api/internal/models"
	"github.com/ksc-migration/collections-api/internal/repository"
	"gorm.io/gorm"
)

var ErrMemberNotFound = errors.New("member not found")

// MemberService manages member records and their sequence numbers.
type MemberService struct {
	memberRepo repository.MemberRepository
}

// NewMemberService creates a new MemberService.
func NewMemberService(memberRepo repository.MemberRepository) *MemberService {
	return &MemberService{
		memberRepo: memberRepo,
	}
}

// MemberInput carries the writable member fields. A nil Sno requests
// allocation of the next sequence number; a supplied Sno that collides with
// an existing member is silently replaced by the next number rather than
// rejected.
type MemberInput struct {
	Sno                  *int64
	Name                 *string
	OrganizationID       *uint64
	MemberCode           *int64
	FamilyID             *int64
	DefaultFamilyID      *int64
	OfficialMemberID     *int64
	Pledge               *float64
	GroupName            *string
	GroupAlias           *string
	DefaultGroupAlias    *string
	GroupLeaderID        *int64
	DefaultGroupLeaderID *int64
	Status               *string
	Phone                *string
	Phone2               *string
	Email                *string
	Residence            *string
}

func (in MemberInput) apply(member *models.Member) {
	member.Name = in.Name
	member.OrganizationID = in.OrganizationID
	member.MemberCode = in.MemberCode
	member.FamilyID = in.FamilyID
	member.DefaultFamilyID = in.DefaultFamilyID
	member.OfficialMemberID = in.OfficialMemberID
	member.Pledge = in.Pledge
	member.GroupName = in.GroupName
	member.GroupAlias = in.GroupAlias
	member.DefaultGroupAlias = in.DefaultGroupAlias
	member.GroupLeaderID = in.GroupLeaderID
	member.DefaultGroupLeaderID = in.DefaultGroupLeaderID
	member.Status = in.Status
	member.Phone = in.Phone
	member.Phone2 = in.Phone2
	member.Email = in.Email
	member.Residence = in.Residence
}

// CreateMember creates a member, allocating a unique sequence number.
func (s *MemberService) CreateMember(input MemberInput) (*models.Member, error) {
	member := &models.Member{}
	input.apply(member)

	if err := s.memberRepo.CreateAllocatingSno(member, input.Sno); err != nil {
		return nil, fmt.Errorf("failed to create member: %w", err)
	}
	return member, nil
}

// ListMembers returns members matching the filter.
func (s *MemberService) ListMembers(filter repository.MemberFilter) ([]models.Member, int64, error) {
	members, total, err := s.memberRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list members: %w", err)
	}
	return members, total, nil
}

// UpdateMember updates a member's fields. The sequence number is only
// touched when the input supplies one; collisions are not re-resolved on
// update, matching create-time being the sole allocation point.
func (s *MemberService) UpdateMember(id uint64, input MemberInput) (*models.Member, error) {
	member, err := s.memberRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to find member: %w", err)
	}

	input.apply(member)
	if input.Sno != nil {
		member.Sno = *input.Sno
	}

	if err := s.memberRepo.Update(member); err != nil {
		return nil, fmt.Errorf("failed to update member: %w", err)
	}
	return member, nil
}
