package gormstore

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Store is the SQLite-backed persistence used for local runs and tests.
type Store struct {
	db *gorm.DB
}

func Open(path string, log zerolog.Logger) (*Store, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_foreign_keys=on"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Discard,
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// SQLite serialises writers; one connection also keeps :memory: databases alive.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&userModel{}, &educationModel{}, &experienceModel{}, &skillModel{}, &hobbyModel{}); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	log.Info().Str("path", path).Msg("sqlite store ready")
	return &Store{db: db}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) Users() *UserRepository {
	return &UserRepository{db: s.db}
}

func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed")
}
