// Package middleware provides the HTTP middleware that authenticates
// callers and enforces permissions on routes.
//
//	protected := router.PathPrefix("/").Subrouter()
//	protected.Use(jwtAuth.Middleware)
//	protected.Handle("/groups", handler).
//	    Methods("POST")
//	// gate a single route
//	handler = middleware.Enforce(gate, "Groups", "create", logger)(handler)
package middleware
