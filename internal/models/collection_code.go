package models

// CollectionCode labels a canonical column (s/c/l field) with its
// human-readable collection category.
type CollectionCode struct {
	ID         uint64  `gorm:"primarykey" json:"id"`
	ColumnName string  `gorm:"type:varchar(100);uniqueIndex;not null" json:"column_name"`
	Code       *string `gorm:"type:varchar(400)" json:"code"`
}
