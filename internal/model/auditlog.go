package model

import "time"

// Audit target types
const (
	AuditTargetUsers     = "users"
	AuditTargetCustomers = "customers"
	AuditTargetFollowups = "followups"
	AuditTargetDatabase  = "db"
)

// Audit actions
const (
	ActionCreateUser     = "create_user"
	ActionResetPassword  = "reset_password"
	ActionDeleteUser     = "delete_user"
	ActionCreateCustomer = "create_customer"
	ActionUpdateCustomer = "update_customer"
	ActionDeleteCustomer = "delete_customer"
	ActionAddFollowup    = "add_followup"
	ActionBackup         = "backup"
)

// AuditLogEntry is a single append-only record of a mutating action.
// Username is free text rather than a foreign key, so entries outlive
// their acting user. Entries are never updated or deleted.
type AuditLogEntry struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Action     string    `json:"action"`
	TargetType string    `json:"targetType"`
	TargetID   string    `json:"targetId"`
	Details    string    `json:"details"`
	CreatedAt  time.Time `json:"createdAt"`
}
