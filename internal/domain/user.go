package domain

import "time"

// UserRole distinguishes customers from drivers.
type UserRole string

const (
	RoleCustomer UserRole = "CUSTOMER"
	RoleDriver   UserRole = "DRIVER"
)

// User represents a customer or driver account.
// Identity verification and KYC live in external collaborators; the engine
// only needs a contact point for notifications and a wallet owner.
type User struct {
	ID        string
	Name      string
	Phone     string
	Role      UserRole
	CreatedAt time.Time
}
