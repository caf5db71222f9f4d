package collection

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/brickstore/brickstore/internal/domain"
)

const (
	msgInvalidType    = "Invalid set type"
	msgInvalidDetails = "Invalid details"
)

// messages maps a field path to the message shown next to the form field.
// Every field carries a single rule, so the path alone selects the message.
var messages = map[string]string{
	"setNumber":            "Set number is required",
	"name":                 "Name is required",
	"pieceCount":           "Piece count must be positive",
	"ageGroup":             "Age group is required",
	"price":                "Price must be positive",
	"details.plantType":    "Plant type is required",
	"details.height":       "Height must be positive",
	"details.vehicleType":  "Vehicle type is required",
	"details.buildingType": "Building type is required",
	"details.floors":       "Number of floors must be positive",
	"details.furnished":    "Furnished is required",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type baseInput struct {
	SetNumber  string  `json:"setNumber" validate:"required"`
	Name       string  `json:"name" validate:"required"`
	PieceCount int     `json:"pieceCount" validate:"gt=0"`
	AgeGroup   string  `json:"ageGroup" validate:"required"`
	Price      float64 `json:"price" validate:"gt=0"`
}

type plantInput struct {
	PlantType    string  `json:"plantType" validate:"oneof=rose sunflower orchid cactus"`
	Height       float64 `json:"height" validate:"gt=0"`
	VaseIncluded *bool   `json:"vaseIncluded"`
}

type vehicleInput struct {
	VehicleType string `json:"vehicleType" validate:"oneof=car boat plane train"`
	Brand       string `json:"brand"`
	Model       string `json:"model"`
}

type buildingInput struct {
	BuildingType string `json:"buildingType" validate:"oneof=residential historical fantasy"`
	Floors       int    `json:"floors" validate:"gt=0"`
	Furnished    *bool  `json:"furnished" validate:"required"`
}

// Validate checks a draft and returns the normalised item. Every failing
// field is reported at once through a *ValidationError; an unknown type tag
// is rejected with ErrInvalidVariant before any field rule runs.
func Validate(d Draft) (Item, error) {
	if !d.Type.Valid() {
		return Item{}, newValidationError(map[string]string{"type": msgInvalidType}, ErrInvalidVariant)
	}

	base := baseInput{
		SetNumber:  strings.TrimSpace(d.SetNumber),
		Name:       strings.TrimSpace(d.Name),
		PieceCount: d.PieceCount,
		AgeGroup:   strings.TrimSpace(d.AgeGroup),
		Price:      d.Price,
	}
	fields := make(map[string]string)
	collect(validate.Struct(base), "", fields)

	var details domain.Details
	if _, bad := d.decodeErrors["details"]; !bad {
		details = validateDetails(d.Type, d.Details, fields)
	}
	for path, msg := range d.decodeErrors {
		fields[path] = msg
	}
	if len(fields) > 0 {
		return Item{}, newValidationError(fields, nil)
	}

	hasBuilt := true
	if d.HasBuilt != nil {
		hasBuilt = *d.HasBuilt
	}
	return Item{
		SetNumber:  base.SetNumber,
		Name:       base.Name,
		PieceCount: base.PieceCount,
		AgeGroup:   base.AgeGroup,
		Price:      base.Price,
		HasBuilt:   hasBuilt,
		Type:       d.Type,
		Details:    details,
	}, nil
}

func validateDetails(t domain.SetType, raw map[string]interface{}, fields map[string]string) domain.Details {
	if raw == nil {
		raw = map[string]interface{}{}
	}
	switch t {
	case domain.SetTypePlants:
		var in plantInput
		if !decodeDetails(raw, &in, fields) {
			return nil
		}
		collect(validate.Struct(in), "details.", fields)
		vase := true
		if in.VaseIncluded != nil {
			vase = *in.VaseIncluded
		}
		return domain.PlantDetails{
			PlantType:    domain.PlantType(in.PlantType),
			Height:       in.Height,
			VaseIncluded: vase,
		}
	case domain.SetTypeVehicles:
		var in vehicleInput
		if !decodeDetails(raw, &in, fields) {
			return nil
		}
		collect(validate.Struct(in), "details.", fields)
		return domain.VehicleDetails{
			VehicleType: domain.VehicleType(in.VehicleType),
			Brand:       strings.TrimSpace(in.Brand),
			Model:       strings.TrimSpace(in.Model),
		}
	case domain.SetTypeBuildings:
		var in buildingInput
		if !decodeDetails(raw, &in, fields) {
			return nil
		}
		collect(validate.Struct(in), "details.", fields)
		var furnished bool
		if in.Furnished != nil {
			furnished = *in.Furnished
		}
		return domain.BuildingDetails{
			BuildingType: domain.BuildingType(in.BuildingType),
			Floors:       in.Floors,
			Furnished:    furnished,
		}
	}
	return nil
}

func decodeDetails(raw map[string]interface{}, out interface{}, fields map[string]string) bool {
	if err := decodeWeak(raw, out); err != nil {
		fields["details"] = msgInvalidDetails
		return false
	}
	return true
}

// collect translates validator output into field-path messages.
func collect(err error, prefix string, fields map[string]string) {
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields[strings.TrimSuffix(prefix, ".")] = err.Error()
		return
	}
	for _, fe := range verrs {
		path := prefix + fe.Field()
		if msg, ok := messages[path]; ok {
			fields[path] = msg
		} else {
			fields[path] = fe.Error()
		}
	}
}
