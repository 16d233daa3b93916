// Package auth implements scoped role-based authorization.
//
// A role carries a permission matrix (section to action to allowed) and a
// scope tier: global, club or self. The pieces are:
//
//   - RoleStore reads and writes roles, their matrices and user assignments.
//     Matrix updates replace the whole matrix, are serialized per role and
//     refuse system roles.
//   - TokenIssuer signs identity tokens with a versioned claim schema.
//   - ScopeResolver verifies a token and returns the caller's Identity.
//   - Evaluate and Authorizer.Decide combine the caller's matrices with the
//     owner facts of the target resource and return a Decision.
//
// Resource owner facts come from the guards in package guard.
//
// A token keeps the roles it was issued with until it expires. Matrices are
// read on every decision, so matrix edits apply at once while role
// assignment changes apply at the next login.
//
// Example usage:
//
//	store := auth.NewRoleStore(db)
//	authz := auth.NewAuthorizer(store)
//
//	id, err := resolver.ResolveIdentity(bearer)
//	facts, err := bookingGuard.OwnerFacts(ctx, bookingID)
//	d, err := authz.Decide(ctx, id, auth.SectionBookings, permission.Update, facts)
package auth
