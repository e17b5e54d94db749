// Package auth identifies the caller of each HTTP request and carries that
// identity, the principal, to the service layer on the request context.
//
// Two modes are supported:
//   - "none": every request runs as a configured default user (AUTH_DEFAULT_PRINCIPAL)
//   - "local": users log in with a password (session cookie) or send an API token
//     as "Authorization: Bearer <token>"
//
// # Configuration
//
//	AUTH_MODE=none|local
//	AUTH_DEFAULT_PRINCIPAL=default@localhost.localdomain
//	AUTH_SESSION_LIFETIME=24h
//	AUTH_TOKEN_EXPIRY=720h
//	AUTH_BCRYPT_COST=12
//	AUTH_SECURE_COOKIES=true
//
// # Usage
//
//	authService := auth.NewService(db, cfg.Auth)
//	mw := auth.NewMiddleware(authService, sessions, cfg.Auth, defaultUser)
//	router.Use(mw.Handler())
//
// Services read the principal without depending on gin:
//
//	email, ok := auth.PrincipalFromContext(ctx)
package auth
