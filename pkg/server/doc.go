// Package server provides the HTTP server for the RBAC API.
//
// The router is a gorilla/mux router. Every request passes through access
// logging, panic recovery and, when origins are configured, CORS. Route
// level middleware records Prometheus metrics.
//
// # Server Setup
//
//	srv := server.NewServer(server.Components{
//	    Config:   cfg,
//	    Logger:   logger,
//	    Services: services,
//	    Gate:     gate,
//	    Auth:     auth,
//	    Tokens:   tokens,
//	}, "0.0.0.0", "8000")
//	endpoints.RegisterAll(srv)
//	log.Fatal(srv.Start())
//
// # Endpoints
//
// API endpoints are registered via the endpoints subpackage and include:
//
//   - /auth/register, /auth/login - Registration and bearer tokens
//   - /users, /groups, /roles, /modules, /permissions - Administration
//   - /access/me, /access/check, /access/simulate - Access decisions
//   - /, /health, /metrics - Status
package server
