package database

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/projectdesk/projectdesk/internal/models"
	"gorm.io/gorm"
)

// Migrate creates the canonical schema, its indexes and the built-in roles.
func Migrate(db *gorm.DB) error {
	slog.Info("running database migrations")
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	if err := SeedRoles(db); err != nil {
		return fmt.Errorf("failed to seed roles: %w", err)
	}

	slog.Info("database migrations completed")
	return nil
}

// AddIndexes adds the composite indexes used by listing and cascade queries
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		model   any
		name    string
		columns string
	}{
		{&models.Task{}, "idx_tasks_project_status", "project_id, status"},
		{&models.Task{}, "idx_tasks_team_id_status", "team_id, status"},
		{&models.TaskActivity{}, "idx_task_activity_task_created", "task_id, created_at"},
		{&models.Report{}, "idx_reports_created_at", "created_at"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.model, idx.name) {
			slog.Debug("index already exists, skipping", "index", idx.name)
			continue
		}

		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(idx.model); err != nil {
			return fmt.Errorf("failed to parse model for index %s: %w", idx.name, err)
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, stmt.Schema.Table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		slog.Info("created index", "index", idx.name, "table", stmt.Schema.Table, "columns", idx.columns)
	}

	return nil
}

// SeedRoles inserts the built-in roles that are missing.
func SeedRoles(db *gorm.DB) error {
	for _, role := range models.DefaultRoles() {
		var existing models.Role
		err := db.Where("role_name = ?", role.RoleName).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(&role).Error; err != nil {
			return err
		}
	}
	return nil
}
