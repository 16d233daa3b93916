// Package auth provides the bearer token middleware of the JSON API.
//
// The middleware reads the Authorization header, verifies the token with the
// scope resolver and stores the resulting identity in fiber.Locals. Handlers
// read it back with auth.IdentityFrom. Missing or invalid tokens get 401.
//
// Usage:
//
//	app.Use(authmiddleware.New(resolver, authmiddleware.PublicPaths("/api/login", "/checkalive")))
package auth
