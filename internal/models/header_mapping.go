package models

// HeaderMapping remembers how a previously seen upload header was mapped to
// a canonical column, so the next preview can suggest it.
type HeaderMapping struct {
	ID           uint64 `gorm:"primarykey" json:"id"`
	HeaderName   string `gorm:"type:varchar(400);uniqueIndex;not null" json:"header_name"`
	MappedColumn string `gorm:"type:varchar(100);not null" json:"mapped_column"`
}
