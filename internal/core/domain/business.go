package domain

// Business is the top-level tenant; branches belong to a business.
type Business struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	AuditFields
}

// Branch is an operating location of a business. Roles and memberships are
// scoped to a branch, not the business.
type Branch struct {
	ID         int64  `json:"id"`
	BusinessID int64  `json:"businessID"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	AuditFields
}
