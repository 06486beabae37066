package business

import "time"

// Business represents a bookkeeping entity owned by a client.
type Business struct {
	ID        string
	Name      string
	OwnerID   string
	Currency  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Member links a user to a business.
type Member struct {
	BusinessID string
	UserID     string
	Relation   string // owner or member
	AddedAt    time.Time
}

// CreateBusinessInput for creating businesses.
type CreateBusinessInput struct {
	Name     string
	OwnerID  string
	Currency string
}

// UpdateBusinessInput for updating business attributes.
type UpdateBusinessInput struct {
	Name     string
	Currency string
}
