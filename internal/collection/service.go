package collection

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/brickstore/brickstore/internal/domain"
	"github.com/brickstore/brickstore/internal/store"
)

// Service is the collection client: it validates input, maps it to store
// columns and wraps store failures. It keeps no state between calls.
type Service struct {
	store store.Store
}

func NewService(s store.Store) *Service {
	return &Service{store: s}
}

// Create validates d and inserts it as a single row.
func (s *Service) Create(ctx context.Context, d Draft) (*domain.LegoSet, error) {
	item, err := Validate(d)
	if err != nil {
		return nil, err
	}
	row, err := toRow(item)
	if err != nil {
		return nil, &PersistenceError{Op: OpCreate, Err: err}
	}
	if err := s.store.Insert(ctx, row); err != nil {
		zap.L().Error("failed to create lego set",
			zap.String("set_number", item.SetNumber),
			zap.Error(err))
		return nil, &PersistenceError{Op: OpCreate, Err: err}
	}
	zap.L().Info("lego set created",
		zap.String("id", row.ID),
		zap.String("set_number", row.SetNumber),
		zap.String("type", row.Type.String()))
	return row, nil
}

// GetAll returns the whole collection, newest first. An empty collection
// yields an empty, non-nil slice.
func (s *Service) GetAll(ctx context.Context) ([]domain.LegoSet, error) {
	sets, err := s.store.SelectAll(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: OpFetchAll, Err: err}
	}
	if sets == nil {
		sets = []domain.LegoSet{}
	}
	return sets, nil
}

// GetByID returns the matching set, or nil with a nil error when no set has
// that id.
func (s *Service) GetByID(ctx context.Context, id string) (*domain.LegoSet, error) {
	set, err := s.store.SelectByID(ctx, id)
	if errors.Is(err, store.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &PersistenceError{Op: OpFetch, Err: err}
	}
	return set, nil
}

// Update applies a partial update. Provided base fields are checked before
// any store call; a patch touching type or details is merged over the stored
// record and validated as a whole. Only provided fields are written.
func (s *Service) Update(ctx context.Context, id string, p Patch) (*domain.LegoSet, error) {
	if p.Type != nil && !p.Type.Valid() {
		return nil, newValidationError(map[string]string{"type": msgInvalidType}, ErrInvalidVariant)
	}
	if err := p.validateFields(); err != nil {
		return nil, err
	}

	var item *Item
	if p.touchesVariant() {
		current, err := s.store.SelectByID(ctx, id)
		if err != nil {
			return nil, &PersistenceError{Op: OpUpdate, Err: err}
		}
		draft, err := DraftFromSet(*current)
		if err != nil {
			return nil, &PersistenceError{Op: OpUpdate, Err: err}
		}
		p.mergeInto(&draft)
		merged, err := Validate(draft)
		if err != nil {
			return nil, err
		}
		item = &merged
	}

	cols, err := p.columns(item)
	if err != nil {
		return nil, &PersistenceError{Op: OpUpdate, Err: err}
	}
	if len(cols) == 0 {
		current, err := s.store.SelectByID(ctx, id)
		if err != nil {
			return nil, &PersistenceError{Op: OpUpdate, Err: err}
		}
		return current, nil
	}

	updated, err := s.store.UpdateByID(ctx, id, cols)
	if err != nil {
		zap.L().Error("failed to update lego set", zap.String("id", id), zap.Error(err))
		return nil, &PersistenceError{Op: OpUpdate, Err: err}
	}
	zap.L().Info("lego set updated", zap.String("id", id), zap.Int("columns", len(cols)))
	return updated, nil
}

// Delete removes a set permanently.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteByID(ctx, id); err != nil {
		zap.L().Error("failed to delete lego set", zap.String("id", id), zap.Error(err))
		return &PersistenceError{Op: OpDelete, Err: err}
	}
	zap.L().Info("lego set deleted", zap.String("id", id))
	return nil
}

// GetAllByType returns the sets of one category, newest first.
func (s *Service) GetAllByType(ctx context.Context, t domain.SetType) ([]domain.LegoSet, error) {
	sets, err := s.store.SelectByType(ctx, t)
	if err != nil {
		return nil, &PersistenceError{Op: OpFetchByType, Err: err}
	}
	if sets == nil {
		sets = []domain.LegoSet{}
	}
	return sets, nil
}

// AddedMessage is the confirmation shown after a set is created.
func AddedMessage(set domain.LegoSet) string {
	return fmt.Sprintf("Successfully added %s (%s) to your collection!", set.Name, set.SetNumber)
}

func toRow(item Item) (*domain.LegoSet, error) {
	details, err := domain.EncodeDetails(item.Details)
	if err != nil {
		return nil, err
	}
	return &domain.LegoSet{
		SetNumber:  item.SetNumber,
		Name:       item.Name,
		PieceCount: item.PieceCount,
		AgeGroup:   item.AgeGroup,
		Price:      item.Price,
		HasBuilt:   item.HasBuilt,
		Type:       item.Type,
		Details:    details,
	}, nil
}
