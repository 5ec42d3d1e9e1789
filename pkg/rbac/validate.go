package rbac

import (
	"context"
	"strings"

	"github.com/doodlesbykumbi/rbac-in-go/pkg/server/store"
)

func validateName(label, name string) error {
	if name == "" {
		return Validationf("%s name is required", label)
	}
	if strings.TrimSpace(name) != name {
		return Validationf("%s name must not have leading or trailing whitespace", label)
	}
	return nil
}

// normalizeIDs removes duplicates while keeping the first occurrence order.
func normalizeIDs(ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, Validationf("at least one id is required")
	}
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}

func requireExists(ctx context.Context, tx store.Store, m interface{}, label string, id uint) error {
	n, err := tx.Count(ctx, m, "id", id)
	if err != nil {
		return err
	}
	if n == 0 {
		return NotFoundf("%s %d not found", label, id)
	}
	return nil
}

func checkNameFree(ctx context.Context, tx store.Store, m interface{}, label, name string) error {
	n, err := tx.Count(ctx, m, "name", name)
	if err != nil {
		return err
	}
	if n > 0 {
		return Conflictf("%s %q already exists", label, name)
	}
	return nil
}

// NamedUpdate is a partial update of a named entity. Nil fields are left
// unchanged.
type NamedUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// namedValues validates in against the entity's current name and returns
// the columns to write.
func namedValues(ctx context.Context, tx store.Store, m interface{}, label, current string, in NamedUpdate) (map[string]interface{}, error) {
	values := map[string]interface{}{}
	if in.Name != nil {
		if err := validateName(label, *in.Name); err != nil {
			return nil, err
		}
		if *in.Name != current {
			if err := checkNameFree(ctx, tx, m, label, *in.Name); err != nil {
				return nil, err
			}
			values["name"] = *in.Name
		}
	}
	if in.Description != nil {
		values["description"] = *in.Description
	}
	return values, nil
}

// createNamed inserts value after checking name against the rows of probe.
func createNamed(ctx context.Context, s store.Store, probe, value interface{}, label, name string) error {
	if err := validateName(label, name); err != nil {
		return err
	}
	return s.Transaction(ctx, func(tx store.Store) error {
		if err := checkNameFree(ctx, tx, probe, label, name); err != nil {
			return err
		}
		return storeErr(tx.Insert(ctx, value), label, 0)
	})
}
