// Package store provides storage abstractions for the RBAC server.
//
// The Store interface is deliberately small: lookups by id, by a unique
// column and by an id set, insert/update/delete, and fetches that name the
// relation path to load. Join-table edges are manipulated through Relation
// descriptors so that every association is addressed by integer ids.
//
// # Usage
//
//	var group model.Group
//	err := s.Find(ctx, &group, id, "Users", "Roles")
//	if errors.Is(err, store.ErrNotFound) {
//	    // Handle not found
//	}
//
// Multi-step mutations run inside Transaction:
//
//	err := s.Transaction(ctx, func(tx store.Store) error {
//	    if err := tx.Unlink(ctx, store.GroupUsers, id, nil); err != nil {
//	        return err
//	    }
//	    return tx.Delete(ctx, &model.Group{}, id)
//	})
package store
