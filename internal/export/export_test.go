package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/brickstore/brickstore/internal/domain"
)

func fixtureSets() []domain.LegoSet {
	created := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	return []domain.LegoSet{
		{
			ID: "b2", SetNumber: "10497", Name: "Galaxy Explorer", PieceCount: 1254,
			AgeGroup: "18+", Price: 99.99, HasBuilt: false, Type: domain.SetTypeVehicles,
			Details:   datatypes.JSON(`{"vehicleType":"plane","brand":"Classic Space","model":"928"}`),
			CreatedAt: created.Add(time.Hour),
		},
		{
			ID: "a1", SetNumber: "10280", Name: "Flower Bouquet", PieceCount: 756,
			AgeGroup: "18+", Price: 49.99, HasBuilt: true, Type: domain.SetTypePlants,
			Details:   datatypes.JSON(`{"plantType":"rose","height":30,"vaseIncluded":true}`),
			CreatedAt: created,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, fixtureSets()))

	g := goldie.New(t)
	g.Assert(t, "sets.csv", buf.Bytes())
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "id,set_number,name,piece_count,age_group,price,status,type,details,created_at\n", buf.String())
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, fixtureSets()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	assert.Equal(t, "set_number", f.GetCellValue(sheetName, "B1"))
	assert.Equal(t, "Galaxy Explorer", f.GetCellValue(sheetName, "C2"))
	assert.Equal(t, "plane - Classic Space", f.GetCellValue(sheetName, "I2"))
	assert.Equal(t, "Built", f.GetCellValue(sheetName, "G3"))
}
