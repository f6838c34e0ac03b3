package domain

import (
	"strings"
	"time"
)

// Role is the access tag carried by every account.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleInvestigator Role = "tergovchi"
	RoleManagement   Role = "rahbariyat"
)

// ParseRole normalizes a role string. Upper-case backend spellings and the
// English aliases are accepted.
func ParseRole(raw string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "admin", "administrator":
		return RoleAdmin, nil
	case "tergovchi", "investigator":
		return RoleInvestigator, nil
	case "rahbariyat", "management":
		return RoleManagement, nil
	}
	return "", ErrInvalidRole
}

// HasGlobalVisibility reports whether the role sees every evidence item.
func (r Role) HasGlobalVisibility() bool {
	return r != RoleInvestigator
}

// CanManageEvidence reports whether the role may create or change evidence.
func (r Role) CanManageEvidence() bool {
	return r == RoleAdmin || r == RoleInvestigator
}

// User is an account of the evidence service.
type User struct {
	ID           string
	FullName     string
	Username     string
	PhoneNumber  string
	PasswordHash string
	Role         Role
	LastActivity *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayName falls back to the username when no full name is stored.
func (u *User) DisplayName() string {
	if strings.TrimSpace(u.FullName) != "" {
		return u.FullName
	}
	return u.Username
}
