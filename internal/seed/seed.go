// Package seed ensures baseline rows exist after migration.
package seed

import (
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/frostline/crm/internal/config"
	employeedomain "github.com/frostline/crm/internal/employee/domain"
	"gorm.io/gorm"
)

// EnsureAdminEmployee creates the default admin employee when the employee
// table is empty, so every operation has a valid actor on a fresh install.
func EnsureAdminEmployee(conn *gorm.DB, cfg config.Config) error {
	var count int64
	if err := conn.Model(&employeedomain.Employee{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count employees: %w", err)
	}
	if count > 0 {
		return nil
	}

	node, err := snowflake.NewNode(0)
	if err != nil {
		return fmt.Errorf("create snowflake node: %w", err)
	}

	now := time.Now().UTC()
	admin := employeedomain.Employee{
		ID:        node.Generate(),
		Name:      cfg.SeedAdminName,
		Email:     cfg.SeedAdminEmail,
		Role:      employeedomain.RoleAdmin,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := conn.Create(&admin).Error; err != nil {
		return fmt.Errorf("seed admin employee: %w", err)
	}
	return nil
}
