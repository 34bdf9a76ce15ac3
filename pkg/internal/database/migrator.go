package database

import (
	"github.com/livepoll-dev/server/pkg/internal/models"
	"gorm.io/gorm"
)

var AutoMaintainRange = []any{
	&models.Session{},
	&models.Poll{},
}

func RunMigration(source *gorm.DB) error {
	if err := source.AutoMigrate(
		append(
			AutoMaintainRange,
			&models.Response{},
		)...,
	); err != nil {
		return err
	}

	// A code may belong to at most one active session at a time. The
	// predicate makes the constraint partial, so ended sessions keep their
	// code and free it for reuse.
	if err := source.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_sessions_active_code ON sessions (code) WHERE status = 'active' AND deleted_at IS NULL",
	).Error; err != nil {
		return err
	}

	return nil
}
