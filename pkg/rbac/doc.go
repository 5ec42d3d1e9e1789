// Package rbac implements validated management of users, groups, roles,
// modules and permissions, and of the associations between them.
//
// Every service method that touches more than one row runs inside a single
// storage transaction: assigning members, removing members and deleting an
// entity together with its join rows are atomic.
//
// Failures are reported as *Error values whose Kind is one of the sentinel
// errors below, so callers can branch with errors.Is:
//
//	group, err := svc.Groups.AssignRoles(ctx, groupID, []uint{1, 2})
//	switch {
//	case errors.Is(err, rbac.ErrNotFound):
//	case errors.Is(err, rbac.ErrValidation):
//	}
package rbac
