package endpoints

import (
	"github.com/doodlesbykumbi/rbac-in-go/pkg/server"
)

// RegisterRolesEndpoints registers the role routes
func RegisterRolesEndpoints(s *server.Server) {
	roles := s.Services.Roles
	r := authenticated(s, "/roles")

	r.HandleFunc("", handleList(roles.List, s.Logger)).Methods("GET")
	r.Handle("", guard(s, ModuleRoles, "create", handleCreateNamed(roles.Create, s.Logger))).Methods("POST")
	r.HandleFunc("/{id:[0-9]+}", handleGet(roles.Get, s.Logger)).Methods("GET")
	r.Handle("/{id:[0-9]+}", guard(s, ModuleRoles, "update", handleUpdateNamed(roles.Update, s.Logger))).Methods("PUT")
	r.Handle("/{id:[0-9]+}", guard(s, ModuleRoles, "delete", handleDelete(roles.Delete, s.Logger))).Methods("DELETE")

	r.HandleFunc("/{id:[0-9]+}/groups", handleGet(roles.Groups, s.Logger)).Methods("GET")
	r.Handle("/{id:[0-9]+}/groups", guard(s, ModuleRoles, "update", handleEdges(roles.AssignGroups, "groupIds", s.Logger))).Methods("POST")
	r.Handle("/{id:[0-9]+}/groups", guard(s, ModuleRoles, "update", handleEdges(roles.RemoveGroups, "groupIds", s.Logger))).Methods("DELETE")

	r.HandleFunc("/{id:[0-9]+}/permissions", handleGet(roles.Permissions, s.Logger)).Methods("GET")
	r.Handle("/{id:[0-9]+}/permissions", guard(s, ModuleRoles, "update", handleEdges(roles.AssignPermissions, "permissionIds", s.Logger))).Methods("POST")
	r.Handle("/{id:[0-9]+}/permissions", guard(s, ModuleRoles, "update", handleEdges(roles.RemovePermissions, "permissionIds", s.Logger))).Methods("DELETE")
}
