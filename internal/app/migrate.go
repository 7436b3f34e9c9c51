package app

import (
	"fmt"

	"github.com/mhmasum1/digital-life-lessons-server/internal/comment"
	"github.com/mhmasum1/digital-life-lessons-server/internal/contact"
	"github.com/mhmasum1/digital-life-lessons-server/internal/favorite"
	"github.com/mhmasum1/digital-life-lessons-server/internal/lesson"
	"github.com/mhmasum1/digital-life-lessons-server/internal/platform/database"
	"github.com/mhmasum1/digital-life-lessons-server/internal/report"
	"github.com/mhmasum1/digital-life-lessons-server/internal/user"

	"gorm.io/gorm"
)

// Models lists every persisted type, in migration order.
func Models() []interface{} {
	return []interface{}{
		&user.User{},
		&lesson.Lesson{},
		&lesson.Like{},
		&favorite.Favorite{},
		&report.Report{},
		&comment.Comment{},
		&contact.Message{},
	}
}

// Migrate brings the schema up to date on a freshly opened connection.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// ProvideMigrator exposes Migrate to the injector.
func ProvideMigrator() database.Migrator {
	return Migrate
}
