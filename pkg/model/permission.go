package model

import (
	"fmt"
	"strings"
	"time"
)

// Permission grants one action on one module. The (module_id, action) pair
// is unique.
type Permission struct {
	ID          uint      `gorm:"column:id;primaryKey" json:"id"`
	Action      Action    `gorm:"column:action;type:varchar(16);not null;uniqueIndex:idx_permissions_module_action,priority:2" json:"action"`
	ModuleID    uint      `gorm:"column:module_id;not null;uniqueIndex:idx_permissions_module_action,priority:1" json:"moduleId"`
	Module      *Module   `gorm:"foreignKey:ModuleID;constraint:OnDelete:RESTRICT" json:"module,omitempty"`
	Description *string   `gorm:"column:description" json:"description"`
	Roles       []Role    `gorm:"many2many:role_permissions" json:"roles,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Permission) TableName() string {
	return "permissions"
}

// Matches reports whether p grants action on the named module. Both sides
// are compared case-insensitively. The Module association must be loaded.
func (p Permission) Matches(moduleName, action string) bool {
	if p.Module == nil {
		return false
	}
	return strings.EqualFold(p.Module.Name, moduleName) && strings.EqualFold(p.Action.String(), action)
}

// Describe renders p as "<action> on <module>".
func (p Permission) Describe() string {
	name := fmt.Sprintf("module#%d", p.ModuleID)
	if p.Module != nil {
		name = p.Module.Name
	}
	return fmt.Sprintf("%s on %s", p.Action, name)
}
