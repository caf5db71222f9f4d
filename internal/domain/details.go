package domain

import (
	"errors"
	"fmt"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"gorm.io/datatypes"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrUnknownSetType is returned when a type tag is outside the closed set.
var ErrUnknownSetType = errors.New("unknown set type")

// SetType is the category tag that decides the shape of Details.
type SetType string

const (
	SetTypePlants    SetType = "plants"
	SetTypeVehicles  SetType = "vehicles"
	SetTypeBuildings SetType = "buildings"
)

// SetTypes lists every known category in display order.
var SetTypes = []SetType{SetTypePlants, SetTypeVehicles, SetTypeBuildings}

// Valid reports whether t is one of the known categories.
func (t SetType) Valid() bool {
	switch t {
	case SetTypePlants, SetTypeVehicles, SetTypeBuildings:
		return true
	}
	return false
}

func (t SetType) String() string {
	return string(t)
}

type PlantType string

const (
	PlantRose      PlantType = "rose"
	PlantSunflower PlantType = "sunflower"
	PlantOrchid    PlantType = "orchid"
	PlantCactus    PlantType = "cactus"
)

type VehicleType string

const (
	VehicleCar   VehicleType = "car"
	VehicleBoat  VehicleType = "boat"
	VehiclePlane VehicleType = "plane"
	VehicleTrain VehicleType = "train"
)

type BuildingType string

const (
	BuildingResidential BuildingType = "residential"
	BuildingHistorical  BuildingType = "historical"
	BuildingFantasy     BuildingType = "fantasy"
)

// Details is the type-specific payload of a LegoSet. The set of
// implementations is closed: PlantDetails, VehicleDetails, BuildingDetails.
type Details interface {
	SetType() SetType
	// Summary is the one-line description shown in collection listings.
	Summary() string
	sealed()
}

// PlantDetails describes a botanical set.
type PlantDetails struct {
	PlantType    PlantType `json:"plantType"`
	Height       float64   `json:"height"` // centimetres
	VaseIncluded bool      `json:"vaseIncluded"`
}

func (PlantDetails) SetType() SetType { return SetTypePlants }
func (PlantDetails) sealed()          {}

func (d PlantDetails) Summary() string {
	return fmt.Sprintf("%s (%scm)", d.PlantType, strconv.FormatFloat(d.Height, 'f', -1, 64))
}

// VehicleDetails describes a vehicle set. Brand and Model are optional.
type VehicleDetails struct {
	VehicleType VehicleType `json:"vehicleType"`
	Brand       string      `json:"brand"`
	Model       string      `json:"model"`
}

func (VehicleDetails) SetType() SetType { return SetTypeVehicles }
func (VehicleDetails) sealed()          {}

func (d VehicleDetails) Summary() string {
	if d.Brand == "" {
		return string(d.VehicleType)
	}
	return fmt.Sprintf("%s - %s", d.VehicleType, d.Brand)
}

// BuildingDetails describes an architecture set.
type BuildingDetails struct {
	BuildingType BuildingType `json:"buildingType"`
	Floors       int          `json:"floors"`
	Furnished    bool         `json:"furnished"`
}

func (BuildingDetails) SetType() SetType { return SetTypeBuildings }
func (BuildingDetails) sealed()          {}

func (d BuildingDetails) Summary() string {
	return fmt.Sprintf("%s (%d floors)", d.BuildingType, d.Floors)
}

// EncodeDetails serialises a variant into the details column format.
func EncodeDetails(d Details) (datatypes.JSON, error) {
	if d == nil {
		return nil, errors.New("details are required")
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

// DecodeDetails parses a details column according to the set type.
func DecodeDetails(t SetType, raw []byte) (Details, error) {
	switch t {
	case SetTypePlants:
		var d PlantDetails
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("decode %s details: %w", t, err)
		}
		return d, nil
	case SetTypeVehicles:
		var d VehicleDetails
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("decode %s details: %w", t, err)
		}
		return d, nil
	case SetTypeBuildings:
		var d BuildingDetails
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("decode %s details: %w", t, err)
		}
		return d, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSetType, string(t))
}

// Summary renders the type-specific listing line, or "" when the details
// column cannot be decoded.
func (s LegoSet) Summary() string {
	d, err := s.Variant()
	if err != nil {
		return ""
	}
	return d.Summary()
}
