package gate

import "context"

// Policy defines authorization rules for a single resource type.
type Policy[U comparable] interface {
	Can(ctx context.Context, subject U, action Action, resource any) bool
}

// RolePolicy is a table-driven Policy for role-string subjects: it maps each
// action to the set of roles allowed to perform it. Actions absent from the
// table are denied; an empty role list under an action allows any non-guest.
type RolePolicy map[Action][]string

// Can implements Policy[string].
func (p RolePolicy) Can(_ context.Context, role string, action Action, _ any) bool {
	allowed, ok := p[action]
	if !ok {
		return false
	}
	if len(allowed) == 0 {
		return true
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
