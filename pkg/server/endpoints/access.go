package endpoints

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/doodlesbykumbi/rbac-in-go/pkg/identity"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/rbac"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/server"
)

// CheckRequest asks whether the caller may perform Action on Module.
type CheckRequest struct {
	Module string `json:"module" validate:"required"`
	Action string `json:"action" validate:"required"`
}

// CheckResponse answers a CheckRequest.
type CheckResponse struct {
	Allowed bool   `json:"allowed"`
	Module  string `json:"module"`
	Action  string `json:"action"`
}

// SimulateRequest asks for the decision and its explanation for any user.
type SimulateRequest struct {
	UserID uint   `json:"userId" validate:"required,gt=0"`
	Module string `json:"module" validate:"required"`
	Action string `json:"action" validate:"required"`
}

// RegisterAccessEndpoints registers the access decision routes
func RegisterAccessEndpoints(s *server.Server) {
	r := authenticated(s, "/access")

	r.HandleFunc("/me", handleMyPermissions(s.Gate, s.Logger)).Methods("GET")
	r.HandleFunc("/check", handleCheck(s.Gate, s.Logger)).Methods("POST")
	r.HandleFunc("/simulate", handleSimulate(s.Gate, s.Logger)).Methods("POST")
}

func validateModuleAction(module, action string) error {
	if hasOuterWhitespace(module) || hasOuterWhitespace(action) {
		return rbac.Validationf("Module and action cannot have leading or trailing whitespace")
	}
	return nil
}

func handleMyPermissions(gate AccessGate, logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "User not authenticated")
			return
		}
		permissions, err := gate.Permissions(r.Context(), id.UserID)
		if err != nil {
			respondWithServiceError(w, r, logger, err)
			return
		}
		respondWithJSON(w, http.StatusOK, permissions)
	}
}

func handleCheck(gate AccessGate, logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "User not authenticated")
			return
		}
		var req CheckRequest
		if err := decodeBody(r, &req); err != nil {
			respondWithServiceError(w, r, logger, err)
			return
		}
		if err := validateModuleAction(req.Module, req.Action); err != nil {
			respondWithServiceError(w, r, logger, err)
			return
		}

		allowed, err := gate.IsAllowed(r.Context(), id.UserID, req.Module, req.Action)
		if err != nil {
			respondWithServiceError(w, r, logger, err)
			return
		}
		respondWithJSON(w, http.StatusOK, CheckResponse{Allowed: allowed, Module: req.Module, Action: req.Action})
	}
}

func handleSimulate(gate AccessGate, logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SimulateRequest
		if err := decodeBody(r, &req); err != nil {
			respondWithServiceError(w, r, logger, err)
			return
		}
		if err := validateModuleAction(req.Module, req.Action); err != nil {
			respondWithServiceError(w, r, logger, err)
			return
		}

		decision, err := gate.Simulate(r.Context(), req.UserID, req.Module, req.Action)
		if err != nil {
			respondWithServiceError(w, r, logger, err)
			return
		}
		respondWithJSON(w, http.StatusOK, decision)
	}
}
