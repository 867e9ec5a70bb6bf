// Package authorization names the account roles carried in access tokens.
package authorization

// UserRole is stored on the account and copied into the JWT role claim.
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleStaff UserRole = "staff"
	RoleAdmin UserRole = "admin"
)

// privileged roles are not metered by the AI usage ledger.
var privileged = map[UserRole]bool{
	RoleUser:  false,
	RoleStaff: true,
	RoleAdmin: true,
}

func (r UserRole) String() string { return string(r) }

func (r UserRole) IsPrivileged() bool { return privileged[r] }

func (r UserRole) IsValid() bool {
	_, ok := privileged[r]
	return ok
}

// ParseUserRole falls back to RoleUser for unknown or empty input, so a
// tampered claim never grants more than the least privileged role.
func ParseUserRole(s string) UserRole {
	if r := UserRole(s); r.IsValid() {
		return r
	}
	return RoleUser
}
