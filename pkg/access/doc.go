// Package access resolves a user's effective permissions and decides
// whether the user may perform an action on a module.
//
// Resolution walks user -> groups -> roles -> permissions -> module in a
// single relation-path fetch and deduplicates by permission id. Nothing is
// cached; every decision re-reads storage.
//
//	gate := access.NewGate(access.NewResolver(store))
//	allowed, err := gate.IsAllowed(ctx, userID, "Users", "create")
package access
