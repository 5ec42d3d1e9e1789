// Package config provides configuration management for the RBAC server.
//
// Settings are read from rbac.yml in RBAC_CONFIG_PATH (default
// /etc/rbac/config) and then overridden by environment variables. Each
// attribute remembers whether its value came from the default, the file,
// or the environment.
//
// # Key Configuration Options
//
//   - RBAC_LOG_LEVEL, RBAC_LOG_FORMAT: Logging
//   - RBAC_TOKEN_TTL: Access token lifetime in seconds
//   - RBAC_ENFORCE_WRITE_PERMISSIONS: Permission checks on mutating routes
//   - RBAC_BOOTSTRAP_FILE: Document applied at server start
//
// Secrets are never read from the file: RBAC_JWT_SECRET and DATABASE_URL
// come from the environment only.
package config
