package model

import "time"

// User mirrors the users table. Role is either ADMIN or CUSTOMER; only
// admins may modify the theatre catalogue, while any authenticated user
// may create reservations.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email (unique, lower-cased)
	PasswordHash string    // users.password_hash (bcrypt)
	Role         string    // users.role (ADMIN | CUSTOMER)
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
