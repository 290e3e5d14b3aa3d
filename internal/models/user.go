package models

import "time"

type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleMember UserRole = "member"
)

// User is a dashboard member.
type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	DisplayName  string    `gorm:"type:varchar(255)" json:"display_name"`
	Email        string    `gorm:"type:varchar(255)" json:"email"`
	Role         UserRole  `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}
