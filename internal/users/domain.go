package users

import "time"

// Account is the platform-facing view of a user row.
type Account struct {
	ID               string
	Email            string
	Name             string
	Role             string
	SubscriptionTier string
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// UpdateProfileInput edits a user's own attributes.
type UpdateProfileInput struct {
	Name string
}

// AdminUpdateInput edits administrative attributes of any account.
type AdminUpdateInput struct {
	Role             string
	SubscriptionTier string
	IsActive         bool
}

// ListFilter narrows account listings.
type ListFilter struct {
	Role   string
	Search string
	Limit  int
	Offset int
}
