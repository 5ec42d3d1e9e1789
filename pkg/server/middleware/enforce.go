package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/doodlesbykumbi/rbac-in-go/pkg/identity"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/rbac"
)

// Authorizer decides whether a user may perform action on module.
type Authorizer interface {
	Authorize(ctx context.Context, userID uint, module, action string) error
}

// Enforce returns middleware that lets a request through only when the
// authenticated caller holds action on module. Denials are 403; any failure
// to decide is 500 and the request is not served.
func Enforce(authz Authorizer, module, action string, logger *logrus.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := identity.Get(r.Context())
			if !ok {
				respondWithError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			err := authz.Authorize(r.Context(), id.UserID, module, action)
			switch {
			case err == nil:
				next.ServeHTTP(w, r)
			case errors.Is(err, rbac.ErrForbidden):
				respondWithError(w, http.StatusForbidden, "Insufficient permissions")
			default:
				logger.WithError(err).WithFields(logrus.Fields{
					"user_id": id.UserID,
					"module":  module,
					"action":  action,
				}).Error("permission check failed")
				respondWithError(w, http.StatusInternalServerError, "Permission check failed")
			}
		})
	}
}
