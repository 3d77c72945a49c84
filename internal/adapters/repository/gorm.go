package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/okian/finch/pkg/metrics"
)

// GormStore implements Store over any GORM dialect. Production runs on
// Postgres; tests run the same code path against in-memory SQLite.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an open GORM handle.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// OpenPostgres connects to the configured Postgres instance.
func OpenPostgres(host string, port int, dbname, user, password string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=disable",
		host, port, dbname, user, password)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}

// Migrate creates the users table if absent.
func (s *GormStore) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&User{}); err != nil {
		return fmt.Errorf("migrate users table: %w", err)
	}
	return nil
}

// Insert writes a record unless the account ID is already present. The
// duplicate case is reported as AlreadyExists, not an error.
func (s *GormStore) Insert(ctx context.Context, u User) (InsertOutcome, error) {
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = now
	}

	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&u)
	if res.Error != nil {
		return outcomeNone, fmt.Errorf("insert score record: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return AlreadyExists, nil
	}
	return Inserted, nil
}

// FindByUsername returns the record for a handle.
func (s *GormStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		metrics.RecordStoreMiss()
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find by username: %w", err)
	}
	metrics.RecordStoreHit()
	return &u, nil
}

// FindByID returns the record for an account ID.
func (s *GormStore) FindByID(ctx context.Context, id int64) (*User, error) {
	var u User
	err := s.db.WithContext(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find by id: %w", err)
	}
	return &u, nil
}
