package domain

import "time"

// Organization is the tenant boundary; every other entity references one.
// Identity is immutable once created.
type Organization struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// OrganizationCreate represents data needed to create a new organization
type OrganizationCreate struct {
	Name string `json:"name"`
}

// IsValid checks if the organization has valid required fields
func (o *OrganizationCreate) IsValid() bool {
	return o.Name != ""
}
