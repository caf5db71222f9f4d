package adminapi

import (
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"

	"github.com/brickstore/brickstore/internal/collection"
	"github.com/brickstore/brickstore/internal/domain"
	"github.com/brickstore/brickstore/internal/export"
	"github.com/brickstore/brickstore/internal/store"
	"github.com/brickstore/brickstore/internal/webserver"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type listQuery struct {
	Type  string `query:"type" validate:"omitempty,oneof=plants vehicles buildings"`
	Fresh bool   `query:"fresh"` // refetch the cached list first
}

// legoSetView is a stored set plus the list-view labels.
type legoSetView struct {
	domain.LegoSet
	Summary string `json:"summary"`
	Status  string `json:"status"`
}

func viewOf(set domain.LegoSet) legoSetView {
	return legoSetView{LegoSet: set, Summary: set.Summary(), Status: set.BuiltLabel()}
}

func viewsOf(sets []domain.LegoSet) []legoSetView {
	views := make([]legoSetView, 0, len(sets))
	for _, set := range sets {
		views = append(views, viewOf(set))
	}
	return views
}

// registerLegoSetRoutes registers the collection CRUD routes
func registerLegoSetRoutes() {
	webserver.ApiGET("/lego-sets", listLegoSets)
	webserver.ApiGET("/lego-sets/export.csv", exportLegoSetsCSV)
	webserver.ApiGET("/lego-sets/export.xlsx", exportLegoSetsXLSX)
	webserver.ApiGET("/lego-sets/:id", getLegoSet)
	webserver.ApiPOST("/lego-sets", createLegoSet)
	webserver.ApiPUT("/lego-sets/:id", updateLegoSet)
	webserver.ApiDELETE("/lego-sets/:id", deleteLegoSet)
}

func listLegoSets(c echo.Context) error {
	var q listQuery
	if err := c.Bind(&q); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse query", err.Error())
	}
	if err := c.Validate(&q); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid set type",
			map[string]string{"type": "Invalid set type"})
	}

	ctx := c.Request().Context()
	var (
		sets []domain.LegoSet
		err  error
	)
	if q.Type != "" {
		sets, err = GetApp(c).Collection().GetAllByType(ctx, domain.SetType(q.Type))
	} else {
		cache := GetApp(c).Cache()
		if q.Fresh {
			err = cache.Revalidate(ctx)
		}
		if err == nil {
			sets, err = cache.List(ctx)
		}
	}
	if err != nil {
		return failCollection(c, err)
	}
	return ok(c, viewsOf(sets))
}

func getLegoSet(c echo.Context) error {
	set, err := GetApp(c).Collection().GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return failCollection(c, err)
	}
	if set == nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "LEGO set not found", nil)
	}
	return ok(c, viewOf(*set))
}

func createLegoSet(c echo.Context) error {
	raw := make(map[string]interface{})
	if err := json.NewDecoder(c.Request().Body).Decode(&raw); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse LEGO set", err.Error())
	}
	draft := collection.DraftFromMap(raw)

	set, err := GetApp(c).Cache().Add(c.Request().Context(), draft)
	if err != nil {
		return failCollection(c, err)
	}
	return created(c, viewOf(*set), collection.AddedMessage(*set))
}

func updateLegoSet(c echo.Context) error {
	var patch collection.Patch
	if err := json.NewDecoder(c.Request().Body).Decode(&patch); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse LEGO set", err.Error())
	}

	set, err := GetApp(c).Cache().Change(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return failCollection(c, err)
	}
	return ok(c, viewOf(*set))
}

func deleteLegoSet(c echo.Context) error {
	id := c.Param("id")
	if err := GetApp(c).Cache().Remove(c.Request().Context(), id); err != nil {
		return failCollection(c, err)
	}
	return ok(c, map[string]interface{}{"id": id})
}

func exportLegoSetsCSV(c echo.Context) error {
	sets, err := GetApp(c).Collection().GetAll(c.Request().Context())
	if err != nil {
		return failCollection(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="lego_sets.csv"`)
	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	return export.WriteCSV(c.Response(), sets)
}

func exportLegoSetsXLSX(c echo.Context) error {
	sets, err := GetApp(c).Collection().GetAll(c.Request().Context())
	if err != nil {
		return failCollection(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="lego_sets.xlsx"`)
	c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().WriteHeader(http.StatusOK)
	return export.WriteXLSX(c.Response(), sets)
}

// failCollection maps collection errors to HTTP responses.
func failCollection(c echo.Context, err error) error {
	var perr *collection.PersistenceError
	switch {
	case errors.Is(err, collection.ErrValidation):
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid LEGO set", collection.FieldErrors(err))
	case errors.Is(err, store.ErrNoRows):
		return fail(c, http.StatusNotFound, "NOT_FOUND", "LEGO set not found", nil)
	case errors.As(err, &perr):
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", perr.Op, err.Error())
	default:
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error", err.Error())
	}
}
