package models

import "time"

// Role grants access to mutations.
type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleEmployee Role = "Employee"
)

// User represents an account able to log in.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username  string    `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,max=100"`
	Password  string    `gorm:"type:varchar(255)" validate:"required"` // bcrypt hash, never serialized
	Role      Role      `json:"role" gorm:"type:varchar(20)" validate:"required,oneof=Admin Employee"`
	CreatedAt time.Time `json:"createdAt"`
}

// Identity is what a verified token says about its bearer.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

// AuthPayload is returned by login and register.
type AuthPayload struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	Token    string `json:"token"`
}
