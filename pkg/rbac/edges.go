package rbac

import (
	"context"

	"github.com/doodlesbykumbi/rbac-in-go/pkg/server/store"
)

// edge describes one side of a many-to-many association.
type edge struct {
	rel         store.Relation
	owner       interface{}
	ownerLabel  string
	member      interface{}
	memberLabel string
}

// assign adds edges from ownerID to every id in ids. Either all ids exist
// and the union is written, or nothing is written. reload runs in the same
// transaction after the edges are in place.
func assign(ctx context.Context, s store.Store, e edge, ownerID uint, ids []uint, reload func(tx store.Store) error) error {
	ids, err := normalizeIDs(ids)
	if err != nil {
		return err
	}
	return s.Transaction(ctx, func(tx store.Store) error {
		if err := requireExists(ctx, tx, e.owner, e.ownerLabel, ownerID); err != nil {
			return err
		}
		n, err := tx.Count(ctx, e.member, "id", ids)
		if err != nil {
			return err
		}
		if n != int64(len(ids)) {
			return Validationf("one or more %s not found", e.memberLabel)
		}
		if err := tx.Link(ctx, e.rel, ownerID, ids); err != nil {
			return storeErr(err, e.ownerLabel, ownerID)
		}
		return reload(tx)
	})
}

// unassign removes edges from ownerID to the given ids. Ids that are not
// linked are ignored.
func unassign(ctx context.Context, s store.Store, e edge, ownerID uint, ids []uint, reload func(tx store.Store) error) error {
	ids, err := normalizeIDs(ids)
	if err != nil {
		return err
	}
	return s.Transaction(ctx, func(tx store.Store) error {
		if err := requireExists(ctx, tx, e.owner, e.ownerLabel, ownerID); err != nil {
			return err
		}
		if err := tx.Unlink(ctx, e.rel, ownerID, ids); err != nil {
			return err
		}
		return reload(tx)
	})
}

// deleteDetached removes every join row of the entity and then the entity.
func deleteDetached(ctx context.Context, s store.Store, m interface{}, label string, id uint, rels ...store.Relation) error {
	return s.Transaction(ctx, func(tx store.Store) error {
		if err := requireExists(ctx, tx, m, label, id); err != nil {
			return err
		}
		for _, rel := range rels {
			if err := tx.Unlink(ctx, rel, id, nil); err != nil {
				return err
			}
		}
		return storeErr(tx.Delete(ctx, m, id), label, id)
	})
}
