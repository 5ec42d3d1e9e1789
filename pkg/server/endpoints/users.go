package endpoints

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/doodlesbykumbi/rbac-in-go/pkg/rbac"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/server"
)

// RegisterUsersEndpoints registers the user administration routes. Users
// are created through /auth/register.
func RegisterUsersEndpoints(s *server.Server) {
	users := s.Services.Users
	r := authenticated(s, "/users")

	r.HandleFunc("", handleList(users.List, s.Logger)).Methods("GET")
	r.HandleFunc("/{id:[0-9]+}", handleGet(users.Get, s.Logger)).Methods("GET")
	r.Handle("/{id:[0-9]+}", guard(s, ModuleUsers, "update", handleUpdateUser(users, s.Logger))).Methods("PUT")
	r.Handle("/{id:[0-9]+}", guard(s, ModuleUsers, "delete", handleDelete(users.Delete, s.Logger))).Methods("DELETE")

	r.HandleFunc("/{id:[0-9]+}/groups", handleGet(users.Groups, s.Logger)).Methods("GET")
	r.Handle("/{id:[0-9]+}/groups", guard(s, ModuleUsers, "update", handleEdges(users.AssignGroups, "groupIds", s.Logger))).Methods("POST")
	r.Handle("/{id:[0-9]+}/groups", guard(s, ModuleUsers, "update", handleEdges(users.RemoveGroups, "groupIds", s.Logger))).Methods("DELETE")

	r.HandleFunc("/{id:[0-9]+}/permissions", handleGet(s.Gate.Permissions, s.Logger)).Methods("GET")
}

func handleUpdateUser(users UserService, logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r)
		if err != nil {
			respondWithServiceError(w, r, logger, err)
			return
		}
		var req rbac.UserUpdate
		if err := decodeBody(r, &req); err != nil {
			respondWithServiceError(w, r, logger, err)
			return
		}
		user, err := users.Update(r.Context(), id, req)
		if err != nil {
			respondWithServiceError(w, r, logger, err)
			return
		}
		respondWithJSON(w, http.StatusOK, user)
	}
}
