// Package directory is the query interface to the hosted identity data:
// user rows and business-membership rows. It assembles the access context
// consumed by permission checks, fresh on every request.
package directory

// Profile is the slice of the hosted user row that authorization needs.
type Profile struct {
	ID       string
	Email    string
	Name     string
	Role     string
	Tier     string
	IsActive bool
}

// Membership links a user to a business with an owner or member relation.
type Membership struct {
	BusinessID string
	Relation   string
}
