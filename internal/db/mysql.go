package db

import (
	"fmt"
	"log/slog"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// NewMySQL returns a connected GORM DB instance that logs through slog.
func NewMySQL(dsn string, log *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), Options(log))
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}
	return db, nil
}

// Options is the gorm configuration shared by every dialect.
// TranslateError lets unique-index violations surface as gorm.ErrDuplicatedKey.
func Options(log *slog.Logger) *gorm.Config {
	return &gorm.Config{
		Logger:         NewSlogLogger(log, false),
		TranslateError: true,
	}
}
