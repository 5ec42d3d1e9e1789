package model

import "time"

// Group bundles roles and has users as members.
type Group struct {
	ID          uint      `gorm:"column:id;primaryKey" json:"id"`
	Name        string    `gorm:"column:name;uniqueIndex;not null" json:"name"`
	Description *string   `gorm:"column:description" json:"description"`
	Users       []User    `gorm:"many2many:user_groups" json:"users,omitempty"`
	Roles       []Role    `gorm:"many2many:group_roles" json:"roles,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Group) TableName() string {
	return "groups"
}
