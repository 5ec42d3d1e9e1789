package endpoints

import (
	"github.com/doodlesbykumbi/rbac-in-go/pkg/server"
)

// RegisterGroupsEndpoints registers the group routes
func RegisterGroupsEndpoints(s *server.Server) {
	groups := s.Services.Groups
	r := authenticated(s, "/groups")

	r.HandleFunc("", handleList(groups.List, s.Logger)).Methods("GET")
	r.Handle("", guard(s, ModuleGroups, "create", handleCreateNamed(groups.Create, s.Logger))).Methods("POST")
	r.HandleFunc("/{id:[0-9]+}", handleGet(groups.Get, s.Logger)).Methods("GET")
	r.Handle("/{id:[0-9]+}", guard(s, ModuleGroups, "update", handleUpdateNamed(groups.Update, s.Logger))).Methods("PUT")
	r.Handle("/{id:[0-9]+}", guard(s, ModuleGroups, "delete", handleDelete(groups.Delete, s.Logger))).Methods("DELETE")

	r.HandleFunc("/{id:[0-9]+}/users", handleGet(groups.Users, s.Logger)).Methods("GET")
	r.Handle("/{id:[0-9]+}/users", guard(s, ModuleGroups, "update", handleEdges(groups.AssignUsers, "userIds", s.Logger))).Methods("POST")
	r.Handle("/{id:[0-9]+}/users", guard(s, ModuleGroups, "update", handleEdges(groups.RemoveUsers, "userIds", s.Logger))).Methods("DELETE")

	r.HandleFunc("/{id:[0-9]+}/roles", handleGet(groups.Roles, s.Logger)).Methods("GET")
	r.Handle("/{id:[0-9]+}/roles", guard(s, ModuleGroups, "update", handleEdges(groups.AssignRoles, "roleIds", s.Logger))).Methods("POST")
	r.Handle("/{id:[0-9]+}/roles", guard(s, ModuleGroups, "update", handleEdges(groups.RemoveRoles, "roleIds", s.Logger))).Methods("DELETE")
}
