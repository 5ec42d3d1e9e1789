package endpoints

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/doodlesbykumbi/rbac-in-go/pkg/rbac"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/server"
)

// CreatePermissionRequest is the body of POST /permissions
type CreatePermissionRequest struct {
	Action      string  `json:"action" validate:"required"`
	ModuleID    uint    `json:"moduleId" validate:"required,gt=0"`
	Description *string `json:"description"`
}

// RegisterPermissionsEndpoints registers the permission routes
func RegisterPermissionsEndpoints(s *server.Server) {
	permissions := s.Services.Permissions
	r := authenticated(s, "/permissions")

	r.HandleFunc("", handleList(permissions.List, s.Logger)).Methods("GET")
	r.Handle("", guard(s, ModulePermissions, "create", handleCreatePermission(permissions, s.Logger))).Methods("POST")
	r.HandleFunc("/{id:[0-9]+}", handleGet(permissions.Get, s.Logger)).Methods("GET")
	r.Handle("/{id:[0-9]+}", guard(s, ModulePermissions, "update", handleUpdatePermission(permissions, s.Logger))).Methods("PUT")
	r.Handle("/{id:[0-9]+}", guard(s, ModulePermissions, "delete", handleDelete(permissions.Delete, s.Logger))).Methods("DELETE")

	r.HandleFunc("/{id:[0-9]+}/roles", handleGet(permissions.Roles, s.Logger)).Methods("GET")
	r.Handle("/{id:[0-9]+}/roles", guard(s, ModulePermissions, "update", handleEdges(permissions.AssignRoles, "roleIds", s.Logger))).Methods("POST")
	r.Handle("/{id:[0-9]+}/roles", guard(s, ModulePermissions, "update", handleEdges(permissions.RemoveRoles, "roleIds", s.Logger))).Methods("DELETE")
}

func handleCreatePermission(permissions PermissionService, logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreatePermissionRequest
		if err := decodeBody(r, &req); err != nil {
			respondWithServiceError(w, r, logger, err)
			return
		}
		p, err := permissions.Create(r.Context(), req.Action, req.ModuleID, req.Description)
		if err != nil {
			respondWithServiceError(w, r, logger, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, p)
	}
}

func handleUpdatePermission(permissions PermissionService, logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r)
		if err != nil {
			respondWithServiceError(w, r, logger, err)
			return
		}
		var req rbac.PermissionUpdate
		if err := decodeBody(r, &req); err != nil {
			respondWithServiceError(w, r, logger, err)
			return
		}
		p, err := permissions.Update(r.Context(), id, req)
		if err != nil {
			respondWithServiceError(w, r, logger, err)
			return
		}
		respondWithJSON(w, http.StatusOK, p)
	}
}
