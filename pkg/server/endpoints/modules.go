package endpoints

import (
	"github.com/doodlesbykumbi/rbac-in-go/pkg/server"
)

// RegisterModulesEndpoints registers the module routes. Deleting a module
// that still has permissions is a 409.
func RegisterModulesEndpoints(s *server.Server) {
	modules := s.Services.Modules
	r := authenticated(s, "/modules")

	r.HandleFunc("", handleList(modules.List, s.Logger)).Methods("GET")
	r.Handle("", guard(s, ModuleModules, "create", handleCreateNamed(modules.Create, s.Logger))).Methods("POST")
	r.HandleFunc("/{id:[0-9]+}", handleGet(modules.Get, s.Logger)).Methods("GET")
	r.Handle("/{id:[0-9]+}", guard(s, ModuleModules, "update", handleUpdateNamed(modules.Update, s.Logger))).Methods("PUT")
	r.Handle("/{id:[0-9]+}", guard(s, ModuleModules, "delete", handleDelete(modules.Delete, s.Logger))).Methods("DELETE")
	r.HandleFunc("/{id:[0-9]+}/permissions", handleGet(modules.Permissions, s.Logger)).Methods("GET")
}
