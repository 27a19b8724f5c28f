package model

import "time"

// Followup is a single contact note attached to a customer. Followups are
// immutable once created and deliberately survive deletion of the owning
// customer record.
type Followup struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customerId"`
	Author     string    `json:"author"`
	Note       string    `json:"note"`
	NextAction string    `json:"nextAction"`
	CreatedAt  time.Time `json:"createdAt"`
}
