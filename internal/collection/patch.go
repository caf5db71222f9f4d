package collection

import (
	"strings"

	"github.com/brickstore/brickstore/internal/domain"
	"github.com/brickstore/brickstore/internal/store"
)

// Patch is a partial update. Nil fields are left untouched in the store.
// Details, when present, replace the stored details as a whole.
type Patch struct {
	SetNumber  *string                `json:"setNumber,omitempty"`
	Name       *string                `json:"name,omitempty"`
	PieceCount *int                   `json:"pieceCount,omitempty"`
	AgeGroup   *string                `json:"ageGroup,omitempty"`
	Price      *float64               `json:"price,omitempty"`
	HasBuilt   *bool                  `json:"hasBuilt,omitempty"`
	Type       *domain.SetType        `json:"type,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
}

// Empty reports whether the patch carries no field at all.
func (p Patch) Empty() bool {
	return p.SetNumber == nil && p.Name == nil && p.PieceCount == nil &&
		p.AgeGroup == nil && p.Price == nil && p.HasBuilt == nil &&
		p.Type == nil && p.Details == nil
}

// touchesVariant reports whether the patch needs the full record to validate.
func (p Patch) touchesVariant() bool {
	return p.Type != nil || p.Details != nil
}

// validateFields checks the provided base fields on their own, with the same
// rules and messages as Validate.
func (p Patch) validateFields() error {
	var base baseInput
	provided := make(map[string]bool)
	if p.SetNumber != nil {
		base.SetNumber = strings.TrimSpace(*p.SetNumber)
		provided["setNumber"] = true
	}
	if p.Name != nil {
		base.Name = strings.TrimSpace(*p.Name)
		provided["name"] = true
	}
	if p.PieceCount != nil {
		base.PieceCount = *p.PieceCount
		provided["pieceCount"] = true
	}
	if p.AgeGroup != nil {
		base.AgeGroup = strings.TrimSpace(*p.AgeGroup)
		provided["ageGroup"] = true
	}
	if p.Price != nil {
		base.Price = *p.Price
		provided["price"] = true
	}

	all := make(map[string]string)
	collect(validate.Struct(base), "", all)
	fields := make(map[string]string)
	for path, msg := range all {
		if provided[path] {
			fields[path] = msg
		}
	}
	if len(fields) > 0 {
		return newValidationError(fields, nil)
	}
	return nil
}

// mergeInto overlays the patch on a draft of the stored record. A type
// change resets details to the new variant's defaults before any provided
// details are applied.
func (p Patch) mergeInto(d *Draft) {
	if p.SetNumber != nil {
		d.SetNumber = *p.SetNumber
	}
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.PieceCount != nil {
		d.PieceCount = *p.PieceCount
	}
	if p.AgeGroup != nil {
		d.AgeGroup = *p.AgeGroup
	}
	if p.Price != nil {
		d.Price = *p.Price
	}
	if p.HasBuilt != nil {
		built := *p.HasBuilt
		d.HasBuilt = &built
	}
	if p.Type != nil && *p.Type != d.Type {
		d.SwitchType(*p.Type)
	}
	if p.Details != nil {
		d.Details = p.Details
	}
}

// columns maps the provided fields to store columns. When the record was
// fully validated, item holds the normalised values to write.
func (p Patch) columns(item *Item) (store.Columns, error) {
	cols := store.Columns{}
	if p.SetNumber != nil {
		cols[store.ColumnSetNumber] = strings.TrimSpace(*p.SetNumber)
	}
	if p.Name != nil {
		cols[store.ColumnName] = strings.TrimSpace(*p.Name)
	}
	if p.PieceCount != nil {
		cols[store.ColumnPieceCount] = *p.PieceCount
	}
	if p.AgeGroup != nil {
		cols[store.ColumnAgeGroup] = strings.TrimSpace(*p.AgeGroup)
	}
	if p.Price != nil {
		cols[store.ColumnPrice] = *p.Price
	}
	if p.HasBuilt != nil {
		cols[store.ColumnHasBuilt] = *p.HasBuilt
	}
	if item != nil && p.touchesVariant() {
		raw, err := domain.EncodeDetails(item.Details)
		if err != nil {
			return nil, err
		}
		cols[store.ColumnType] = string(item.Type)
		cols[store.ColumnDetails] = raw
	}
	return cols, nil
}
