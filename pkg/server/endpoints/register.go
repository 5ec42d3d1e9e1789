package endpoints

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/rbac-in-go/pkg/server"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/server/middleware"
)

// Module names used to gate writes.
const (
	ModuleUsers       = "Users"
	ModuleGroups      = "Groups"
	ModuleRoles       = "Roles"
	ModuleModules     = "Modules"
	ModulePermissions = "Permissions"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterStatusEndpoints(srv)
	RegisterAuthEndpoints(srv)
	RegisterUsersEndpoints(srv)
	RegisterGroupsEndpoints(srv)
	RegisterRolesEndpoints(srv)
	RegisterModulesEndpoints(srv)
	RegisterPermissionsEndpoints(srv)
	RegisterAccessEndpoints(srv)
}

// authenticated returns a subrouter for prefix whose routes require a
// bearer token.
func authenticated(s *server.Server, prefix string) *mux.Router {
	r := s.Router.PathPrefix(prefix).Subrouter()
	r.Use(s.JWTMiddleware.Middleware)
	return r
}

// guard wraps h with a permission check for action on module when write
// enforcement is enabled.
func guard(s *server.Server, module, action string, h http.HandlerFunc) http.Handler {
	if s.Config == nil || !s.Config.EnforceWritePermissions || s.Gate == nil {
		return h
	}
	return middleware.Enforce(s.Gate, module, action, s.Logger)(h)
}
