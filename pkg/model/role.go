package model

import "time"

// Role is a named bundle of permissions granted to groups.
type Role struct {
	ID          uint         `gorm:"column:id;primaryKey" json:"id"`
	Name        string       `gorm:"column:name;uniqueIndex;not null" json:"name"`
	Description *string      `gorm:"column:description" json:"description"`
	Groups      []Group      `gorm:"many2many:group_roles" json:"groups,omitempty"`
	Permissions []Permission `gorm:"many2many:role_permissions" json:"permissions,omitempty"`
	CreatedAt   time.Time    `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time    `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Role) TableName() string {
	return "roles"
}
