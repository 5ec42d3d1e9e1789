// Package model defines the GORM models for the RBAC schema.
//
// Users, Groups, Roles, Modules and Permissions live in their own tables.
// The many-to-many associations are plain join tables keyed by integer ids:
//
//	user_groups       (user_id, group_id)
//	group_roles       (group_id, role_id)
//	role_permissions  (role_id, permission_id)
//
// A Permission references its Module through permissions.module_id.
//
// Associations are never loaded implicitly. Callers name the relation path
// they need (for example "Groups.Roles.Permissions.Module") when fetching.
package model
