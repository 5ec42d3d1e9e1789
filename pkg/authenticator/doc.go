// Package authenticator defines the interface for RBAC authenticators.
//
// An authenticator turns a login and credentials into a known user. The
// password authenticator lives in [github.com/doodlesbykumbi/rbac-in-go/pkg/authenticator/authn],
// which also issues and verifies the bearer tokens used on every other
// request.
package authenticator
