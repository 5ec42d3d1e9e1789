package store

// Relation names one direction of a join table.
type Relation struct {
	Table        string
	OwnerColumn  string
	MemberColumn string
}

// Reverse returns the same join table seen from the member side.
func (r Relation) Reverse() Relation {
	return Relation{Table: r.Table, OwnerColumn: r.MemberColumn, MemberColumn: r.OwnerColumn}
}

var (
	UserGroups      = Relation{Table: "user_groups", OwnerColumn: "user_id", MemberColumn: "group_id"}
	GroupUsers      = UserGroups.Reverse()
	GroupRoles      = Relation{Table: "group_roles", OwnerColumn: "group_id", MemberColumn: "role_id"}
	RoleGroups      = GroupRoles.Reverse()
	RolePermissions = Relation{Table: "role_permissions", OwnerColumn: "role_id", MemberColumn: "permission_id"}
	PermissionRoles = RolePermissions.Reverse()
)
