package models

import "time"

// Role values for User.Role.
const (
	RoleDoctor = "doctor"
	RoleAdmin  = "admin"
)

// User defines the structure for clinic users (doctors and admins).
type User struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Username       string    `json:"username" gorm:"uniqueIndex;not null"`
	HashedPassword string    `json:"-" gorm:"not null"`
	Role           string    `json:"role" gorm:"default:doctor;index"`
	CreatedAt      time.Time `json:"created_at"`

	Patients []Patient `json:"-" gorm:"foreignKey:OwnerID"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
