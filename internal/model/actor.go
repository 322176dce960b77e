package model

// Actor roles as carried in the JWT "role" claim.  A CLIENT requests
// bookings; a PERFORMER accepts, rejects or cancels them.  The same user
// table row may hold either role, but a single request always acts in
// exactly one of them.
const (
    RoleClient    = "CLIENT"
    RolePerformer = "PERFORMER"
)

// ValidRole reports whether role is one of the two known actor roles.
func ValidRole(role string) bool {
    return role == RoleClient || role == RolePerformer
}
