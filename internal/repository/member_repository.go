package repository

import (
	"database/sql"
	"strconv"

	"github.com/ksc-migration/collections-api/internal/models"
	"gorm.io/gorm"
)

// GormMemberRepository is a GORM implementation of MemberRepository
type GormMemberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new MemberRepository
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &GormMemberRepository{db: db}
}

// CreateAllocatingSno creates a member inside one transaction, allocating a
// unique sequence number. An omitted sno becomes max(sno)+1; a requested sno
// that already exists is discarded and also becomes max(sno)+1.
func (r *GormMemberRepository) CreateAllocatingSno(member *models.Member, requested *int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		assignNext := requested == nil

		if requested != nil {
			var count int64
			if err := tx.Model(&models.Member{}).Where("sno = ?", *requested).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				assignNext = true
			} else {
				member.Sno = *requested
			}
		}

		if assignNext {
			var max sql.NullInt64
			if err := tx.Model(&models.Member{}).Select("MAX(sno)").Scan(&max).Error; err != nil {
				return err
			}
			member.Sno = max.Int64 + 1
		}

		return tx.Create(member).Error
	})
}

// FindByID finds a member by ID
func (r *GormMemberRepository) FindByID(id uint64) (*models.Member, error) {
	var member models.Member
	if err := r.db.First(&member, id).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// List retrieves members with filtering and pagination
func (r *GormMemberRepository) List(filter MemberFilter) ([]models.Member, int64, error) {
	query := r.db.Model(&models.Member{})

	if filter.Query != "" {
		cond := r.db.Where("name LIKE ?", "%"+filter.Query+"%")
		if code, err := strconv.ParseInt(filter.Query, 10, 64); err == nil {
			cond = cond.Or("member_code = ?", code)
		}
		query = query.Where(cond)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("sno")
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		listQuery = listQuery.Offset(offset).Limit(filter.PageSize)
	}

	var members []models.Member
	if err := listQuery.Find(&members).Error; err != nil {
		return nil, 0, err
	}
	return members, total, nil
}

// Update updates a member
func (r *GormMemberRepository) Update(member *models.Member) error {
	return r.db.Save(member).Error
}

// DeduplicateBySno removes members sharing a sequence number, keeping the
// member with the lowest internal id per group. The group-then-delete
// sequence runs in one transaction so a concurrent allocation cannot observe
// a half-swept table.
func (r *GormMemberRepository) DeduplicateBySno() (int64, error) {
	var removed int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var duplicated []int64
		if err := tx.Model(&models.Member{}).
			Select("sno").
			Group("sno").
			Having("COUNT(*) > 1").
			Scan(&duplicated).Error; err != nil {
			return err
		}

		for _, sno := range duplicated {
			var keep int64
			if err := tx.Model(&models.Member{}).
				Select("MIN(id)").
				Where("sno = ?", sno).
				Scan(&keep).Error; err != nil {
				return err
			}
			res := tx.Where("sno = ? AND id <> ?", sno, keep).Delete(&models.Member{})
			if res.Error != nil {
				return res.Error
			}
			removed += res.RowsAffected
		}
		return nil
	})
	return removed, err
}
