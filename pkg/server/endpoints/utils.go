package endpoints

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/doodlesbykumbi/rbac-in-go/pkg/rbac"
)

// A single validator instance is used, because it caches struct parsing.
var validate = validator.New()

func init() {
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// statusFor maps a service error onto an HTTP status. Unknown errors are
// internal.
func statusFor(err error) int {
	switch {
	case errors.Is(err, rbac.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, rbac.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, rbac.ErrConflict), errors.Is(err, rbac.ErrHasDependents):
		return http.StatusConflict
	case errors.Is(err, rbac.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// respondWithServiceError writes err with its mapped status. Internal
// errors are logged and replaced by an opaque message.
func respondWithServiceError(w http.ResponseWriter, r *http.Request, logger *logrus.Logger, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		logger.WithError(err).WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Error("request failed")
		respondWithError(w, code, "Internal server error")
		return
	}
	respondWithError(w, code, err.Error())
}

// parseID reads a path id. The routes only match digits, so failures are
// limited to overflow.
func parseID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id == 0 {
		return 0, rbac.NotFoundf("not found")
	}
	return uint(id), nil
}

// decodeBody decodes a JSON body into v and validates it.
func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return rbac.Validationf("invalid request body: %s", err.Error())
	}
	err := validate.Struct(v)
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make([]string, 0, len(validationErrors))
		for _, fe := range validationErrors {
			fields = append(fields, fmt.Sprintf("%s is %s", fe.Field(), describeTag(fe)))
		}
		return rbac.Validationf("%s", strings.Join(fields, "; "))
	}
	return err
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "gt":
		return "must be greater than " + fe.Param()
	default:
		return fmt.Sprintf("invalid (%s)", fe.Tag())
	}
}

// decodeIDs reads the id list stored under key, e.g. {"userIds": [1, 2]}.
func decodeIDs(r *http.Request, key string) ([]uint, error) {
	var body map[string][]uint
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, rbac.Validationf("%s must be an array of positive integers", key)
	}
	ids, ok := body[key]
	if !ok {
		return nil, rbac.Validationf("%s is required", key)
	}
	for _, id := range ids {
		if id == 0 {
			return nil, rbac.Validationf("%s must be an array of positive integers", key)
		}
	}
	return ids, nil
}

// hasOuterWhitespace reports whether s starts or ends with whitespace.
func hasOuterWhitespace(s string) bool {
	return s != strings.TrimSpace(s)
}

func handleList[T any](list func(context.Context) ([]T, error), logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := list(r.Context())
		if err != nil {
			respondWithServiceError(w, r, logger, err)
			return
		}
		respondWithJSON(w, http.StatusOK, items)
	}
}

// handleGet serves anything addressed by the path id, including the
// relationship listings.
func handleGet[T any](get func(context.Context, uint) (T, error), logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r)
		if err != nil {
			respondWithServiceError(w, r, logger, err)
			return
		}
		item, err := get(r.Context(), id)
		if err != nil {
			respondWithServiceError(w, r, logger, err)
			return
		}
		respondWithJSON(w, http.StatusOK, item)
	}
}

func handleDelete(del func(context.Context, uint) error, logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r)
		if err != nil {
			respondWithServiceError(w, r, logger, err)
			return
		}
		if err := del(r.Context(), id); err != nil {
			respondWithServiceError(w, r, logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// namedRequest is the body for creating groups, roles and modules.
type namedRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
}

func handleCreateNamed[T any](create func(context.Context, string, *string) (T, error), logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req namedRequest
		if err := decodeBody(r, &req); err != nil {
			respondWithServiceError(w, r, logger, err)
			return
		}
		item, err := create(r.Context(), req.Name, req.Description)
		if err != nil {
			respondWithServiceError(w, r, logger, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, item)
	}
}

func handleUpdateNamed[T any](update func(context.Context, uint, rbac.NamedUpdate) (T, error), logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r)
		if err != nil {
			respondWithServiceError(w, r, logger, err)
			return
		}
		var req rbac.NamedUpdate
		if err := decodeBody(r, &req); err != nil {
			respondWithServiceError(w, r, logger, err)
			return
		}
		item, err := update(r.Context(), id, req)
		if err != nil {
			respondWithServiceError(w, r, logger, err)
			return
		}
		respondWithJSON(w, http.StatusOK, item)
	}
}

// handleEdges serves an assign or remove of the ids listed under key.
func handleEdges[T any](op func(context.Context, uint, []uint) (T, error), key string, logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r)
		if err != nil {
			respondWithServiceError(w, r, logger, err)
			return
		}
		ids, err := decodeIDs(r, key)
		if err != nil {
			respondWithServiceError(w, r, logger, err)
			return
		}
		item, err := op(r.Context(), id, ids)
		if err != nil {
			respondWithServiceError(w, r, logger, err)
			return
		}
		respondWithJSON(w, http.StatusOK, item)
	}
}
