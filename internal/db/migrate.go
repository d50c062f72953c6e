package db

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"svgecommerce/internal/model"
)

// Models lists every table in dependency order.
func Models() []any {
	return []any{
		&model.User{},
		&model.Product{},
		&model.Reactor{},
		&model.Cart{},
		&model.CartLine{},
		&model.Order{},
		&model.OrderLine{},
		&model.Comment{},
		&model.Follower{},
	}
}

// Migrate runs AutoMigrate for all models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// Reset drops every table. Missing tables are logged and skipped.
func Reset(db *gorm.DB, log *slog.Logger) {
	models := Models()
	for i := len(models) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(models[i]); err != nil {
			log.Warn("drop table failed", slog.Any("error", err))
		}
	}
}
