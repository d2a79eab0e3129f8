package models

import (
	"strings"
	"time"
)

type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

// ParseRole normalizes a backend role string. Anything unknown is a plain user.
func ParseRole(s string) UserRole {
	if strings.EqualFold(strings.TrimSpace(s), string(RoleAdmin)) {
		return RoleAdmin
	}
	return RoleUser
}

// User is owned by the backend; the client only displays it and requests mutations.
type User struct {
	ID        FlexString `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      UserRole   `json:"role"`
	Picture   string     `json:"picture,omitempty"`
	CreatedAt string     `json:"createdAt,omitempty"`
}

func (u User) IsAdmin() bool { return ParseRole(string(u.Role)) == RoleAdmin }

// UserStats mirrors the counters at the top of the admin table.
type UserStats struct {
	TotalUsers   int `json:"totalUsers"`
	Admins       int `json:"admins"`
	RegularUsers int `json:"regularUsers"`
}

// AdminSnapshot is one refresh of the admin table.
type AdminSnapshot struct {
	Users     []User    `json:"users"`
	Stats     UserStats `json:"stats"`
	FetchedAt time.Time `json:"fetchedAt"`
}
