package gormstore

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Storage реализует repository.Adapter поверх GORM (PostgreSQL или SQLite)
type Storage struct {
	db  *gorm.DB
	log *zap.Logger
}

// New создает новый экземпляр GORM storage
func New(db *gorm.DB, log *zap.Logger) *Storage {
	return &Storage{
		db:  db,
		log: log,
	}
}

// GetOne выполняет запрос и сканирует первую строку в dest
func (s *Storage) GetOne(ctx context.Context, dest any, query string, args ...any) (bool, error) {
	result := s.db.WithContext(ctx).Raw(query, args...).Scan(dest)
	if result.Error != nil {
		s.log.Debug("failed to query row", zap.String("query", query), zap.Error(result.Error))
		return false, fmt.Errorf("failed to query row: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

// GetMany выполняет запрос и сканирует все строки в слайс dest
func (s *Storage) GetMany(ctx context.Context, dest any, query string, args ...any) error {
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(dest).Error; err != nil {
		s.log.Debug("failed to query rows", zap.String("query", query), zap.Error(err))
		return fmt.Errorf("failed to query rows: %w", err)
	}

	return nil
}

// Exec выполняет изменяющий запрос
func (s *Storage) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	result := s.db.WithContext(ctx).Exec(query, args...)
	if result.Error != nil {
		s.log.Debug("failed to execute statement", zap.String("query", query), zap.Error(result.Error))
		return 0, fmt.Errorf("failed to execute statement: %w", result.Error)
	}

	return result.RowsAffected, nil
}

// Ping проверяет доступность базы данных
func (s *Storage) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB instance: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	return nil
}
