package collection

import (
	"fmt"
	"math"

	jsoniter "github.com/json-iterator/go"
	"github.com/mitchellh/mapstructure"

	"github.com/brickstore/brickstore/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Draft is a candidate set as entered by a user: base fields, the type tag
// and an untyped details object. Validate turns it into an Item.
type Draft struct {
	SetNumber  string                 `json:"setNumber"`
	Name       string                 `json:"name"`
	PieceCount int                    `json:"pieceCount"`
	AgeGroup   string                 `json:"ageGroup"`
	Price      float64                `json:"price"`
	HasBuilt   *bool                  `json:"hasBuilt,omitempty"`
	Type       domain.SetType         `json:"type"`
	Details    map[string]interface{} `json:"details"`

	// decodeErrors holds fields DraftFromMap could not coerce.
	decodeErrors map[string]string
}

// Item is a validated, normalised set ready to be persisted.
type Item struct {
	SetNumber  string         `json:"setNumber"`
	Name       string         `json:"name"`
	PieceCount int            `json:"pieceCount"`
	AgeGroup   string         `json:"ageGroup"`
	Price      float64        `json:"price"`
	HasBuilt   bool           `json:"hasBuilt"`
	Type       domain.SetType `json:"type"`
	Details    domain.Details `json:"details"`
}

// NewDraft returns the blank form state: a plant set with default details.
func NewDraft() Draft {
	built := true
	d := Draft{HasBuilt: &built}
	d.SwitchType(domain.SetTypePlants)
	return d
}

// SwitchType changes the type tag and replaces the details with the new
// variant's defaults. Fields of the previous variant never survive.
func (d *Draft) SwitchType(t domain.SetType) {
	d.Type = t
	d.Details = DetailsMap(DefaultDetails(t))
}

// DefaultDetails returns the initial details for a category, or nil for an
// unknown one.
func DefaultDetails(t domain.SetType) domain.Details {
	switch t {
	case domain.SetTypePlants:
		return domain.PlantDetails{PlantType: domain.PlantRose, Height: 0, VaseIncluded: true}
	case domain.SetTypeVehicles:
		return domain.VehicleDetails{VehicleType: domain.VehicleCar, Brand: "", Model: ""}
	case domain.SetTypeBuildings:
		return domain.BuildingDetails{BuildingType: domain.BuildingResidential, Floors: 1, Furnished: false}
	}
	return nil
}

// DetailsMap flattens a variant into the untyped form used by Draft.
func DetailsMap(det domain.Details) map[string]interface{} {
	switch v := det.(type) {
	case domain.PlantDetails:
		return map[string]interface{}{
			"plantType":    string(v.PlantType),
			"height":       v.Height,
			"vaseIncluded": v.VaseIncluded,
		}
	case domain.VehicleDetails:
		return map[string]interface{}{
			"vehicleType": string(v.VehicleType),
			"brand":       v.Brand,
			"model":       v.Model,
		}
	case domain.BuildingDetails:
		return map[string]interface{}{
			"buildingType": string(v.BuildingType),
			"floors":       v.Floors,
			"furnished":    v.Furnished,
		}
	}
	return map[string]interface{}{}
}

// DraftFromMap decodes an untyped record (e.g. parsed JSON or form values)
// into a Draft. Scalar strings such as "49.99" or "true" are coerced. A
// value that cannot be coerced leaves its field zero and is reported by
// Validate together with the other field errors.
func DraftFromMap(raw map[string]interface{}) Draft {
	d := Draft{}
	bad := make(map[string]string)
	decodeField(raw, "setNumber", "string", &d.SetNumber, bad)
	decodeField(raw, "name", "string", &d.Name, bad)
	decodeField(raw, "ageGroup", "string", &d.AgeGroup, bad)
	decodeField(raw, "price", "number", &d.Price, bad)
	decodeField(raw, "type", "string", &d.Type, nil)

	var pieces float64
	if decodeField(raw, "pieceCount", "number", &pieces, bad) {
		if pieces != math.Trunc(pieces) {
			bad["pieceCount"] = "Expected integer, received float"
		} else {
			d.PieceCount = int(pieces)
		}
	}
	var built bool
	if decodeField(raw, "hasBuilt", "boolean", &built, bad) {
		d.HasBuilt = &built
	}
	if v, ok := raw["details"]; ok && v != nil {
		if m, isMap := v.(map[string]interface{}); isMap {
			d.Details = m
		} else {
			bad["details"] = msgInvalidDetails
		}
	}

	if len(bad) > 0 {
		d.decodeErrors = bad
	}
	return d
}

// decodeField coerces raw[key] into out. Absent and null values are skipped.
func decodeField(raw map[string]interface{}, key, want string, out interface{}, bad map[string]string) bool {
	v, ok := raw[key]
	if !ok || v == nil {
		return false
	}
	if err := decodeWeak(v, out); err != nil {
		if bad != nil {
			bad[key] = fmt.Sprintf("Expected %s, received %s", want, kindOf(v))
		}
		return false
	}
	return true
}

func kindOf(v interface{}) string {
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int64:
		return "number"
	case map[string]interface{}:
		return "object"
	case []interface{}:
		return "array"
	}
	return fmt.Sprintf("%T", v)
}

// DraftFromSet rebuilds the editable form of a stored set.
func DraftFromSet(set domain.LegoSet) (Draft, error) {
	built := set.HasBuilt
	d := Draft{
		SetNumber:  set.SetNumber,
		Name:       set.Name,
		PieceCount: set.PieceCount,
		AgeGroup:   set.AgeGroup,
		Price:      set.Price,
		HasBuilt:   &built,
		Type:       set.Type,
		Details:    map[string]interface{}{},
	}
	if len(set.Details) > 0 {
		if err := json.Unmarshal(set.Details, &d.Details); err != nil {
			return Draft{}, fmt.Errorf("decode details of %s: %w", set.ID, err)
		}
	}
	return d, nil
}

func decodeWeak(input interface{}, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}
