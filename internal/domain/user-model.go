package domain

import "time"

type Role string

const (
	RoleStudent  Role = "student"
	RoleOfficer  Role = "officer"
	RoleLecturer Role = "lecturer"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleOfficer, RoleLecturer, RoleAdmin:
		return true
	}
	return false
}

// User is the auth account. Exactly one role, fixed at provisioning; the
// role-specific profile lives in its own table keyed by UserID.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"type:text;not null" json:"-"`
	Role         Role   `gorm:"type:varchar(20);not null" json:"role"`
	Phone        string `gorm:"type:varchar(15)" json:"phone,omitempty"`
	Active       bool   `gorm:"not null;default:true" json:"active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }
