// Package identity carries the authenticated caller of a request.
//
// The authentication middleware verifies the bearer token and stores an
// Identity in the request context. Handlers read it back and pass the user
// id explicitly to the access gate:
//
//	id, ok := identity.Get(r.Context())
//	if !ok {
//	    // not authenticated
//	}
//	err := gate.Authorize(ctx, id.UserID, "Groups", "update")
package identity
