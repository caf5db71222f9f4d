package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/brickstore/brickstore/internal/domain"
)

// ErrNoRows is returned by single-row lookups and updates when no row matches.
var ErrNoRows = errors.New("no rows in result set")

// Column names of the lego_sets collection.
const (
	ColumnSetNumber  = "set_number"
	ColumnName       = "name"
	ColumnPieceCount = "piece_count"
	ColumnAgeGroup   = "age_group"
	ColumnPrice      = "price"
	ColumnHasBuilt   = "has_built"
	ColumnType       = "type"
	ColumnDetails    = "details"
	ColumnUpdatedAt  = "updated_at"
)

// Columns is a partial row keyed by column name.
type Columns map[string]interface{}

// Store is the row-oriented persistence service behind the collection.
// Implementations own id and timestamp assignment.
type Store interface {
	// Insert stores a new row and fills in ID, CreatedAt and UpdatedAt.
	Insert(ctx context.Context, set *domain.LegoSet) error

	// SelectAll returns every row, newest first.
	SelectAll(ctx context.Context) ([]domain.LegoSet, error)

	// SelectByID returns ErrNoRows when the id is unknown.
	SelectByID(ctx context.Context, id string) (*domain.LegoSet, error)

	// SelectByType returns the rows of one category, newest first.
	SelectByType(ctx context.Context, t domain.SetType) ([]domain.LegoSet, error)

	// UpdateByID writes only the given columns and returns the updated row.
	UpdateByID(ctx context.Context, id string, cols Columns) (*domain.LegoSet, error)

	// DeleteByID removes a row; deleting an unknown id is not an error.
	DeleteByID(ctx context.Context, id string) error

	Close() error
}

// ApplyColumns copies cols onto set. Backends without a query language use
// it to implement partial updates.
func ApplyColumns(set *domain.LegoSet, cols Columns) error {
	for col, val := range cols {
		var ok bool
		switch col {
		case ColumnSetNumber:
			set.SetNumber, ok = val.(string)
		case ColumnName:
			set.Name, ok = val.(string)
		case ColumnPieceCount:
			set.PieceCount, ok = val.(int)
		case ColumnAgeGroup:
			set.AgeGroup, ok = val.(string)
		case ColumnPrice:
			set.Price, ok = val.(float64)
		case ColumnHasBuilt:
			set.HasBuilt, ok = val.(bool)
		case ColumnType:
			var s string
			s, ok = val.(string)
			set.Type = domain.SetType(s)
		case ColumnDetails:
			set.Details, ok = val.(datatypes.JSON)
		case ColumnUpdatedAt:
			set.UpdatedAt, ok = val.(time.Time)
		default:
			return fmt.Errorf("unknown column %q", col)
		}
		if !ok {
			return fmt.Errorf("column %q: unexpected value type %T", col, val)
		}
	}
	return nil
}
