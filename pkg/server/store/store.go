package store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no row matches a lookup.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a unique constraint.
	ErrDuplicate = errors.New("duplicate key")
	// ErrReferenced is returned when a write violates a foreign key.
	ErrReferenced = errors.New("foreign key violation")
)

// Store is the storage contract the RBAC services are written against.
//
// Destination and value arguments are pointers to models from pkg/model
// (or slices of them). Relation paths use the association field names of
// those models joined by dots, e.g. "Groups.Roles.Permissions.Module".
type Store interface {
	// Transaction runs fn against a Store bound to a single transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	Transaction(ctx context.Context, fn func(tx Store) error) error

	// Find loads the row with the given id into dst along with the named
	// relation paths.
	Find(ctx context.Context, dst interface{}, id uint, paths ...string) error
	// FindBy loads the row whose column equals value into dst.
	FindBy(ctx context.Context, dst interface{}, column string, value interface{}, paths ...string) error
	// FindAll loads the rows with the given ids into dst, a pointer to a
	// slice. Missing ids are skipped.
	FindAll(ctx context.Context, dst interface{}, ids []uint, paths ...string) error
	// List loads every row into dst, ordered by id.
	List(ctx context.Context, dst interface{}, paths ...string) error
	// ListBy loads every row whose column equals value into dst.
	ListBy(ctx context.Context, dst interface{}, column string, value interface{}, paths ...string) error
	// Count returns how many rows of m have column equal to value.
	Count(ctx context.Context, m interface{}, column string, value interface{}) (int64, error)

	Insert(ctx context.Context, value interface{}) error
	// Update writes the given column values to the row with id.
	Update(ctx context.Context, m interface{}, id uint, values map[string]interface{}) error
	Delete(ctx context.Context, m interface{}, id uint) error

	// Link adds edges from owner to each member. Existing edges are kept.
	Link(ctx context.Context, rel Relation, ownerID uint, memberIDs []uint) error
	// Unlink removes edges from owner to the given members. A nil
	// memberIDs removes every edge of the owner.
	Unlink(ctx context.Context, rel Relation, ownerID uint, memberIDs []uint) error
}

// HealthStore provides health check operations
type HealthStore interface {
	// CheckConnectivity verifies database connectivity
	CheckConnectivity(ctx context.Context) error
}
