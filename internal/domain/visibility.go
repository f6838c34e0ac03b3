package domain

// VisibleTo reports whether user may see ev. Investigators see their own
// items and items with no owner; other roles see everything.
func VisibleTo(user User, ev Evidence) bool {
	if user.Role.HasGlobalVisibility() {
		return true
	}
	return ev.EnteredBy == "" || ev.EnteredBy == user.Username
}

// FilterForUser keeps the items visible to user in their original order.
func FilterForUser(items []Evidence, user User) []Evidence {
	if user.Role.HasGlobalVisibility() {
		return items
	}
	out := make([]Evidence, 0, len(items))
	for _, it := range items {
		if VisibleTo(user, it) {
			out = append(out, it)
		}
	}
	return out
}

// CanModify reports whether user may change ev.
func CanModify(user User, ev Evidence) bool {
	switch user.Role {
	case RoleAdmin:
		return true
	case RoleInvestigator:
		return ev.EnteredBy == user.Username
	}
	return false
}
