package models

import "time"

// CollectionRecord is the canonical, append-only collection row. The wide
// s/c/l column layout comes from the upstream ledger format: s1 is the
// composite serial code, s2 the collection date, s3 the sub-sequence, s4 the
// contributor name, and the c/l columns hold per-category amounts whose
// labels live in CollectionCode.
type CollectionRecord struct {
	ID             uint64     `gorm:"primarykey" json:"id"`
	CollectionCode string     `gorm:"type:varchar(200);not null" json:"collection_code"`
	MemberID       *uint64    `json:"member_id"`
	OrganizationID *uint64    `json:"organization_id"`
	S1             *int64     `json:"s1"`
	S2             *time.Time `json:"s2"`
	S3             *int64     `json:"s3"`
	S4             *string    `gorm:"type:varchar(255)" json:"s4"`
	S5             *float64   `json:"s5"`
	S6             *float64   `json:"s6"`
	S7             *float64   `json:"s7"`
	S8             *float64   `json:"s8"`
	S9             *float64   `json:"s9"`
	S10            *string    `gorm:"type:varchar(255)" json:"s10"`
	S11            *string    `gorm:"type:varchar(255)" json:"s11"`
	S12            *string    `gorm:"type:varchar(255)" json:"s12"`
	S13            *float64   `json:"s13"`
	C1             *float64   `json:"c1"`
	C2             *float64   `json:"c2"`
	C3             *float64   `json:"c3"`
	C4             *float64   `json:"c4"`
	C5             *float64   `json:"c5"`
	C6             *float64   `json:"c6"`
	C7             *float64   `json:"c7"`
	C8             *float64   `json:"c8"`
	C9             *float64   `json:"c9"`
	C10            *float64   `json:"c10"`
	C11            *float64   `json:"c11"`
	C12            *float64   `json:"c12"`
	C13            *float64   `json:"c13"`
	C14            *float64   `json:"c14"`
	C15            *float64   `json:"c15"`
	C16            *float64   `json:"c16"`
	C17            *float64   `json:"c17"`
	C18            *float64   `json:"c18"`
	C19            *float64   `json:"c19"`
	C20            *float64   `json:"c20"`
	L1             *float64   `json:"l1"`
	L2             *float64   `json:"l2"`
	L3             *float64   `json:"l3"`
	L4             *float64   `json:"l4"`
	L5             *float64   `json:"l5"`
	L6             *float64   `json:"l6"`
	L7             *float64   `json:"l7"`
	L8             *float64   `json:"l8"`
	L9             *float64   `json:"l9"`
	L10            *float64   `json:"l10"`
	L11            *float64   `json:"l11"`
	L12            *float64   `json:"l12"`
	L13            *float64   `json:"l13"`
	L14            *float64   `json:"l14"`
	L15            *float64   `json:"l15"`
	L16            *float64   `json:"l16"`
	L17            *float64   `json:"l17"`
	L18            *float64   `json:"l18"`
	L19            *float64   `json:"l19"`
	L20            *float64   `json:"l20"`
	L21            *float64   `json:"l21"`
	L22            *float64   `json:"l22"`
	L23            *float64   `json:"l23"`
	L24            *float64   `json:"l24"`
	L25            *float64   `json:"l25"`
	L26            *float64   `json:"l26"`
	L27            *float64   `json:"l27"`
	L28            *float64   `json:"l28"`
	L29            *float64   `json:"l29"`
	L30            *float64   `json:"l30"`
	L31            *float64   `json:"l31"`
	L32            *float64   `json:"l32"`
	L33            *float64   `json:"l33"`
	L34            *float64   `json:"l34"`
	L35            *float64   `json:"l35"`
	L36            *float64   `json:"l36"`
	L37            *float64   `json:"l37"`
	L38            *float64   `json:"l38"`
	L39            *float64   `json:"l39"`
	L40            *float64   `json:"l40"`
	L41            *float64   `json:"l41"`
	Source         *string    `gorm:"type:varchar(200)" json:"source"`
	Notes          *string    `gorm:"type:varchar(1000)" json:"notes"`
	AddedAt        time.Time  `gorm:"autoCreateTime" json:"added_at"`
}
