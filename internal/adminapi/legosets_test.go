package adminapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brickstore/brickstore/config"
	"github.com/brickstore/brickstore/internal/app"
	"github.com/brickstore/brickstore/internal/collection"
	"github.com/brickstore/brickstore/internal/webserver"
)

const flowerBouquetJSON = `{
	"setNumber": "10280",
	"name": "Flower Bouquet",
	"pieceCount": 756,
	"ageGroup": "18+",
	"price": 49.99,
	"hasBuilt": true,
	"type": "plants",
	"details": {"plantType": "rose", "height": 30, "vaseIncluded": true}
}`

type envelope struct {
	Data    map[string]interface{} `json:"data"`
	Message string                 `json:"message"`
}

type listEnvelope struct {
	Data []map[string]interface{} `json:"data"`
}

func setupServer(t *testing.T) (*app.Application, http.Handler) {
	t.Helper()
	cfg := config.DefaultAppConfig()
	cfg.System.Workdir = t.TempDir()
	cfg.Store.Driver = "memory"
	a := app.NewApplication(cfg)
	require.NoError(t, a.Init(context.Background()))
	t.Cleanup(a.Release)

	webserver.Init(a)
	Init()
	return a, webserver.Handler()
}

func doRequest(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func createFlowerBouquet(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := doRequest(t, h, http.MethodPost, "/api/v1/lego-sets", flowerBouquetJSON)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var env envelope
	decode(t, rec, &env)
	return env.Data["id"].(string)
}

func TestCreateLegoSet(t *testing.T) {
	_, h := setupServer(t)

	rec := doRequest(t, h, http.MethodPost, "/api/v1/lego-sets", flowerBouquetJSON)
	require.Equal(t, http.StatusCreated, rec.Code)

	var env envelope
	decode(t, rec, &env)
	assert.Equal(t, "Successfully added Flower Bouquet (10280) to your collection!", env.Message)
	assert.NotEmpty(t, env.Data["id"])
	assert.Equal(t, "10280", env.Data["set_number"])
	assert.Equal(t, float64(756), env.Data["piece_count"])
	assert.Equal(t, true, env.Data["has_built"])
	assert.Equal(t, "rose (30cm)", env.Data["summary"])
	assert.Equal(t, "Built", env.Data["status"])
	assert.Equal(t, map[string]interface{}{"plantType": "rose", "height": float64(30), "vaseIncluded": true}, env.Data["details"])
}

func TestCreateLegoSetValidationError(t *testing.T) {
	_, h := setupServer(t)

	body := strings.Replace(flowerBouquetJSON, `"price": 49.99`, `"price": 0`, 1)
	rec := doRequest(t, h, http.MethodPost, "/api/v1/lego-sets", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var er ErrorResponse
	decode(t, rec, &er)
	assert.Equal(t, "VALIDATION_ERROR", er.Code)
	assert.Equal(t, map[string]interface{}{"price": "Price must be positive"}, er.Details)
}

func TestCreateLegoSetMalformedBody(t *testing.T) {
	_, h := setupServer(t)

	rec := doRequest(t, h, http.MethodPost, "/api/v1/lego-sets", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var er ErrorResponse
	decode(t, rec, &er)
	assert.Equal(t, "INVALID_REQUEST", er.Code)

	body := strings.Replace(flowerBouquetJSON, `"pieceCount": 756`, `"pieceCount": "lots"`, 1)
	body = strings.Replace(body, `"name": "Flower Bouquet"`, `"name": ""`, 1)
	rec = doRequest(t, h, http.MethodPost, "/api/v1/lego-sets", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	er = ErrorResponse{}
	decode(t, rec, &er)
	assert.Equal(t, "VALIDATION_ERROR", er.Code)
	assert.Equal(t, map[string]interface{}{
		"pieceCount": "Expected number, received string",
		"name":       "Name is required",
	}, er.Details)

	body = strings.Replace(flowerBouquetJSON, `"pieceCount": 756`, `"pieceCount": 756.9`, 1)
	rec = doRequest(t, h, http.MethodPost, "/api/v1/lego-sets", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	er = ErrorResponse{}
	decode(t, rec, &er)
	assert.Equal(t, map[string]interface{}{"pieceCount": "Expected integer, received float"}, er.Details)
}

func TestGetLegoSet(t *testing.T) {
	_, h := setupServer(t)
	id := createFlowerBouquet(t, h)

	rec := doRequest(t, h, http.MethodGet, "/api/v1/lego-sets/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var env envelope
	decode(t, rec, &env)
	assert.Equal(t, id, env.Data["id"])

	rec = doRequest(t, h, http.MethodGet, "/api/v1/lego-sets/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var er ErrorResponse
	decode(t, rec, &er)
	assert.Equal(t, "NOT_FOUND", er.Code)
}

func TestListLegoSets(t *testing.T) {
	_, h := setupServer(t)
	createFlowerBouquet(t, h)
	truck := `{"setNumber":"10290","name":"Pickup Truck","pieceCount":1677,"ageGroup":"18+","price":119.99,
		"hasBuilt":false,"type":"vehicles","details":{"vehicleType":"car","brand":"Ford","model":"F-150"}}`
	rec := doRequest(t, h, http.MethodPost, "/api/v1/lego-sets", truck)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, h, http.MethodGet, "/api/v1/lego-sets", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var all listEnvelope
	decode(t, rec, &all)
	require.Len(t, all.Data, 2)
	assert.Equal(t, "Pickup Truck", all.Data[0]["name"])
	assert.Equal(t, "car - Ford", all.Data[0]["summary"])
	assert.Equal(t, "Not Built", all.Data[0]["status"])

	rec = doRequest(t, h, http.MethodGet, "/api/v1/lego-sets?type=plants", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var plants listEnvelope
	decode(t, rec, &plants)
	require.Len(t, plants.Data, 1)
	assert.Equal(t, "Flower Bouquet", plants.Data[0]["name"])

	rec = doRequest(t, h, http.MethodGet, "/api/v1/lego-sets?type=spaceships", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListLegoSetsFreshSeesOutsideWrites(t *testing.T) {
	a, h := setupServer(t)
	createFlowerBouquet(t, h)

	rec := doRequest(t, h, http.MethodGet, "/api/v1/lego-sets", "")
	require.Equal(t, http.StatusOK, rec.Code)

	d := collection.DraftFromMap(map[string]interface{}{
		"setNumber": "10311", "name": "Orchid", "pieceCount": 608, "ageGroup": "18+",
		"price": 49.99, "type": "plants",
		"details": map[string]interface{}{"plantType": "orchid", "height": 39},
	})
	_, err := a.Collection().Create(context.Background(), d)
	require.NoError(t, err)

	rec = doRequest(t, h, http.MethodGet, "/api/v1/lego-sets", "")
	var cached listEnvelope
	decode(t, rec, &cached)
	assert.Len(t, cached.Data, 1)

	rec = doRequest(t, h, http.MethodGet, "/api/v1/lego-sets?fresh=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var fresh listEnvelope
	decode(t, rec, &fresh)
	require.Len(t, fresh.Data, 2)
	assert.Equal(t, "Orchid", fresh.Data[0]["name"])
}

func TestListLegoSetsEmpty(t *testing.T) {
	_, h := setupServer(t)
	rec := doRequest(t, h, http.MethodGet, "/api/v1/lego-sets", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[]}`, rec.Body.String())
}

func TestUpdateLegoSet(t *testing.T) {
	_, h := setupServer(t)
	id := createFlowerBouquet(t, h)

	rec := doRequest(t, h, http.MethodPut, "/api/v1/lego-sets/"+id, `{"type":"buildings","details":{"buildingType":"historical","floors":2,"furnished":true}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var env envelope
	decode(t, rec, &env)
	assert.Equal(t, "buildings", env.Data["type"])
	assert.Equal(t, "historical (2 floors)", env.Data["summary"])
	assert.Equal(t, "Flower Bouquet", env.Data["name"])

	rec = doRequest(t, h, http.MethodPut, "/api/v1/lego-sets/"+id, `{"name":"  "}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var er ErrorResponse
	decode(t, rec, &er)
	assert.Equal(t, map[string]interface{}{"name": "Name is required"}, er.Details)

	rec = doRequest(t, h, http.MethodPut, "/api/v1/lego-sets/missing", `{"name":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteLegoSet(t *testing.T) {
	_, h := setupServer(t)
	id := createFlowerBouquet(t, h)

	rec := doRequest(t, h, http.MethodDelete, "/api/v1/lego-sets/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, h, http.MethodGet, "/api/v1/lego-sets/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, h, http.MethodGet, "/api/v1/lego-sets", "")
	assert.JSONEq(t, `{"data":[]}`, rec.Body.String())
}

func TestExportLegoSetsCSV(t *testing.T) {
	_, h := setupServer(t)
	createFlowerBouquet(t, h)

	rec := doRequest(t, h, http.MethodGet, "/api/v1/lego-sets/export.csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "id,set_number,name"))
	assert.Contains(t, lines[1], "Flower Bouquet")
	assert.Contains(t, lines[1], "rose (30cm)")
}

func TestExportLegoSetsXLSX(t *testing.T) {
	_, h := setupServer(t)
	createFlowerBouquet(t, h)

	rec := doRequest(t, h, http.MethodGet, "/api/v1/lego-sets/export.xlsx", "")
	require.Equal(t, http.StatusOK, rec.Code)
	// xlsx files are zip archives
	assert.True(t, strings.HasPrefix(rec.Body.String(), "PK"))
}

func TestUnknownRouteUsesErrorEnvelope(t *testing.T) {
	_, h := setupServer(t)
	rec := doRequest(t, h, http.MethodGet, "/api/v1/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var er ErrorResponse
	decode(t, rec, &er)
	assert.Equal(t, "Not Found", er.Code)
}
