package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/brickstore/brickstore/internal/domain"
)

// GormStore is the PostgreSQL backend.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// OpenPostgres connects to PostgreSQL through gorm.
func OpenPostgres(dsn string, debug bool) (*gorm.DB, error) {
	level := logger.Warn
	if debug {
		level = logger.Info
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(level),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// Migrate creates or updates the collection tables.
func (s *GormStore) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Migrator().AutoMigrate(domain.Tables...); err != nil {
		zap.L().Error("database migration failed", zap.Error(err))
		return errors.WithStack(err)
	}
	return nil
}

func (s *GormStore) Insert(ctx context.Context, set *domain.LegoSet) error {
	set.ID = uuid.NewString()
	set.CreatedAt = time.Time{}
	set.UpdatedAt = time.Time{}
	return errors.WithStack(s.db.WithContext(ctx).Create(set).Error)
}

func (s *GormStore) SelectAll(ctx context.Context) ([]domain.LegoSet, error) {
	sets := make([]domain.LegoSet, 0)
	err := s.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&sets).Error
	return sets, errors.WithStack(err)
}

func (s *GormStore) SelectByType(ctx context.Context, t domain.SetType) ([]domain.LegoSet, error) {
	sets := make([]domain.LegoSet, 0)
	err := s.db.WithContext(ctx).
		Where("type = ?", string(t)).
		Order("created_at DESC, id DESC").
		Find(&sets).Error
	return sets, errors.WithStack(err)
}

func (s *GormStore) SelectByID(ctx context.Context, id string) (*domain.LegoSet, error) {
	var set domain.LegoSet
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&set).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &set, nil
}

func (s *GormStore) UpdateByID(ctx context.Context, id string, cols Columns) (*domain.LegoSet, error) {
	var set domain.LegoSet
	res := s.db.WithContext(ctx).
		Model(&set).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(map[string]interface{}(cols))
	if res.Error != nil {
		return nil, errors.WithStack(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNoRows
	}
	return &set, nil
}

func (s *GormStore) DeleteByID(ctx context.Context, id string) error {
	return errors.WithStack(s.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.LegoSet{}).Error)
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
