package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brickstore/brickstore/internal/domain"
)

func TestNewDraft(t *testing.T) {
	d := NewDraft()
	assert.Equal(t, domain.SetTypePlants, d.Type)
	require.NotNil(t, d.HasBuilt)
	assert.True(t, *d.HasBuilt)
	assert.Equal(t, map[string]interface{}{
		"plantType":    "rose",
		"height":       float64(0),
		"vaseIncluded": true,
	}, d.Details)
}

func TestSwitchTypeDiscardsPreviousVariant(t *testing.T) {
	d := flowerBouquet()
	d.SwitchType(domain.SetTypeVehicles)

	assert.Equal(t, domain.SetTypeVehicles, d.Type)
	assert.Equal(t, map[string]interface{}{
		"vehicleType": "car",
		"brand":       "",
		"model":       "",
	}, d.Details)
	for _, plantField := range []string{"plantType", "height", "vaseIncluded"} {
		assert.NotContains(t, d.Details, plantField)
	}

	d.SwitchType(domain.SetTypeBuildings)
	assert.Equal(t, map[string]interface{}{
		"buildingType": "residential",
		"floors":       1,
		"furnished":    false,
	}, d.Details)
}

func TestSwitchTypeDoesNotShareDefaults(t *testing.T) {
	a := NewDraft()
	a.Details["height"] = 99.0

	b := NewDraft()
	assert.Equal(t, float64(0), b.Details["height"])
}

func TestDefaultDetailsUnknownType(t *testing.T) {
	assert.Nil(t, DefaultDetails("spaceships"))

	d := NewDraft()
	d.SwitchType("spaceships")
	assert.Empty(t, d.Details)
}

func TestDraftFromMapCoercesFormValues(t *testing.T) {
	d := DraftFromMap(map[string]interface{}{
		"setNumber":  "10497",
		"name":       "Galaxy Explorer",
		"pieceCount": "1254",
		"ageGroup":   "18+",
		"price":      "99.99",
		"hasBuilt":   "false",
		"type":       "vehicles",
		"details": map[string]interface{}{
			"vehicleType": "plane",
			"brand":       "Classic Space",
		},
	})
	assert.Equal(t, 1254, d.PieceCount)
	assert.Equal(t, 99.99, d.Price)
	require.NotNil(t, d.HasBuilt)
	assert.False(t, *d.HasBuilt)

	item, err := Validate(d)
	require.NoError(t, err)
	assert.Equal(t, domain.VehicleDetails{VehicleType: domain.VehiclePlane, Brand: "Classic Space"}, item.Details)
}

func TestDraftFromMapReportsCoercionFailuresWithRuleErrors(t *testing.T) {
	d := DraftFromMap(map[string]interface{}{
		"setNumber":  "10280",
		"name":       "",
		"pieceCount": "lots",
		"ageGroup":   "18+",
		"price":      0,
		"type":       "plants",
		"details":    map[string]interface{}{"plantType": "rose", "height": 30},
	})

	_, err := Validate(d)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, map[string]string{
		"pieceCount": "Expected number, received string",
		"name":       "Name is required",
		"price":      "Price must be positive",
	}, FieldErrors(err))
}

func TestDraftFromMapCoercionFailures(t *testing.T) {
	base := func() map[string]interface{} {
		return map[string]interface{}{
			"setNumber":  "10280",
			"name":       "Flower Bouquet",
			"pieceCount": 756.0,
			"ageGroup":   "18+",
			"price":      49.99,
			"type":       "plants",
			"details":    map[string]interface{}{"plantType": "rose", "height": 30.0},
		}
	}
	tests := []struct {
		name  string
		key   string
		value interface{}
		want  map[string]string
	}{
		{
			name:  "fractional piece count",
			key:   "pieceCount",
			value: 756.9,
			want:  map[string]string{"pieceCount": "Expected integer, received float"},
		},
		{
			name:  "price as object",
			key:   "price",
			value: map[string]interface{}{"amount": 1},
			want:  map[string]string{"price": "Expected number, received object"},
		},
		{
			name:  "hasBuilt not a boolean",
			key:   "hasBuilt",
			value: "maybe",
			want:  map[string]string{"hasBuilt": "Expected boolean, received string"},
		},
		{
			name:  "name as array",
			key:   "name",
			value: []interface{}{"a"},
			want:  map[string]string{"name": "Expected string, received array"},
		},
		{
			name:  "details not an object",
			key:   "details",
			value: "rose",
			want:  map[string]string{"details": "Invalid details"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := base()
			raw[tt.key] = tt.value
			_, err := Validate(DraftFromMap(raw))
			require.Error(t, err)
			assert.Equal(t, tt.want, FieldErrors(err))
		})
	}

	item, err := Validate(DraftFromMap(base()))
	require.NoError(t, err)
	assert.Equal(t, 756, item.PieceCount)
}

func TestDraftFromSetRoundTrip(t *testing.T) {
	item, err := Validate(flowerBouquet())
	require.NoError(t, err)
	row, err := toRow(item)
	require.NoError(t, err)
	row.ID = "abc"

	d, err := DraftFromSet(*row)
	require.NoError(t, err)
	again, err := Validate(d)
	require.NoError(t, err)
	assert.Equal(t, item, again)
}
