package domain

import (
	"time"

	"gorm.io/datatypes"
)

// CollectionName is the store collection (table) holding LEGO sets.
const CollectionName = "lego_sets"

// LegoSet is one tracked set as stored by the remote store.
// ID, CreatedAt and UpdatedAt are assigned by the store and never set by clients.
type LegoSet struct {
	ID         string         `gorm:"primaryKey;size:64" json:"id"`
	SetNumber  string         `gorm:"size:64;not null" json:"set_number"`
	Name       string         `gorm:"size:255;not null" json:"name"`
	PieceCount int            `gorm:"not null" json:"piece_count"`
	AgeGroup   string         `gorm:"size:32;not null" json:"age_group"`
	Price      float64        `gorm:"not null" json:"price"`
	HasBuilt   bool           `gorm:"not null" json:"has_built"`
	Type       SetType        `gorm:"size:32;not null;index" json:"type"`
	Details    datatypes.JSON `gorm:"type:jsonb" json:"details"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// TableName Specify table name
func (LegoSet) TableName() string {
	return CollectionName
}

// Variant decodes the details column into the variant selected by Type.
func (s LegoSet) Variant() (Details, error) {
	return DecodeDetails(s.Type, s.Details)
}

// BuiltLabel is the list badge for the build state.
func (s LegoSet) BuiltLabel() string {
	if s.HasBuilt {
		return "Built"
	}
	return "Not Built"
}
