// Package authn implements password authentication, registration, and the
// HS256 bearer tokens handed out at login.
//
//	auth := authn.New(services.Users, hasher, true)
//	user, err := auth.Authenticate(ctx, authenticator.AuthenticatorInput{
//	    Login:       "alice",
//	    Credentials: []byte("secret"),
//	})
//	token, expiresAt, err := tokens.Issue(user)
package authn
