package permission

import (
	"fmt"

	"github.com/fammo-app/fammo/internal/shared/authorization"
)

// defaultPolicies grant admins the whole admin API; staff may read the
// nearby-users report only.
var defaultPolicies = [][3]string{
	{authorization.RoleAdmin.String(), "/api/admin/*", "*"},
	{authorization.RoleStaff.String(), "/api/admin/clinic/:id/nearby-users", "GET"},
}

// defaultInheritance lists (role, parent) pairs. Admins keep whatever is
// later granted to staff.
var defaultInheritance = [][2]string{
	{authorization.RoleAdmin.String(), authorization.RoleStaff.String()},
}

// SeedDefaultPolicies installs the built-in policies. Existing rules are
// left untouched, so it is safe to run at every startup.
func (e *Enforcer) SeedDefaultPolicies() error {
	for _, p := range defaultPolicies {
		if err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return fmt.Errorf("failed to add policy [%s, %s, %s]: %w", p[0], p[1], p[2], err)
		}
	}

	for _, g := range defaultInheritance {
		if err := e.AddRoleInheritance(g[0], g[1]); err != nil {
			return err
		}
	}

	e.logger.Infow("default permissions initialized",
		"policies", len(defaultPolicies),
		"inheritance", len(defaultInheritance))
	return nil
}
