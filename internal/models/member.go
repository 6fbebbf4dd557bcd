package models

import "time"

// Member carries a business-facing sequence number (Sno) distinct from the
// storage identifier. Sno uniqueness is enforced at allocation time and by
// the bootstrap dedup sweep; the unique index is installed after the sweep.
type Member struct {
	ID                   uint64    `gorm:"primarykey" json:"id"`
	Sno                  int64     `gorm:"not null" json:"sno"`
	Name                 *string   `gorm:"type:varchar(300)" json:"name"`
	OrganizationID       *uint64   `json:"organization_id"`
	MemberCode           *int64    `json:"member_code"`
	FamilyID             *int64    `json:"family_id"`
	DefaultFamilyID      *int64    `json:"default_family_id"`
	OfficialMemberID     *int64    `json:"official_member_id"`
	Pledge               *float64  `json:"pledge"`
	GroupName            *string   `gorm:"type:varchar(200)" json:"group_name"`
	GroupAlias           *string   `gorm:"type:varchar(200)" json:"group_alias"`
	DefaultGroupAlias    *string   `gorm:"type:varchar(200)" json:"default_group_alias"`
	GroupLeaderID        *int64    `json:"group_leader_id"`
	DefaultGroupLeaderID *int64    `json:"default_group_leader_id"`
	Status               *string   `gorm:"type:varchar(100)" json:"status"`
	Phone                *string   `gorm:"type:varchar(100)" json:"phone"`
	Phone2               *string   `gorm:"type:varchar(100)" json:"phone2"`
	Email                *string   `gorm:"type:varchar(320)" json:"email"`
	Residence            *string   `gorm:"type:varchar(400)" json:"residence"`
	CreatedAt            time.Time `json:"created_at"`

	// Relations
	Organization *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
}
