package models

type Organization struct {
	ID   uint64 `gorm:"primarykey" json:"id"`
	Name string `gorm:"type:varchar(200);uniqueIndex;not null" json:"name"`
}
