package domain

import "time"

// Membership assigns a user exactly one role within a branch. The store
// enforces uniqueness on (UserID, BranchID): re-assigning replaces the role.
type Membership struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userID"`
	BranchID  int64     `json:"branchID"`
	RoleID    int64     `json:"roleID"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BranchMember is a membership joined with user and role display data,
// as returned by the branch member listing.
type BranchMember struct {
	Membership
	UserName string `json:"userName"`
	RoleName string `json:"roleName"`
}
