package model

import "time"

// Module is a named resource that actions apply to, e.g. "Users".
type Module struct {
	ID          uint         `gorm:"column:id;primaryKey" json:"id"`
	Name        string       `gorm:"column:name;uniqueIndex;not null" json:"name"`
	Description *string      `gorm:"column:description" json:"description"`
	Permissions []Permission `gorm:"foreignKey:ModuleID" json:"permissions,omitempty"`
	CreatedAt   time.Time    `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time    `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Module) TableName() string {
	return "modules"
}
