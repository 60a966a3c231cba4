package dto

import "github.com/nexacrm/crm_backend/internal/core/domain"

// CreateBusinessRequest creates a top-level tenant.
type CreateBusinessRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone"`
}

// BusinessResponse is the wire shape of a business.
type BusinessResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ToBusinessResponse converts a domain business to its wire shape.
func ToBusinessResponse(b *domain.Business) BusinessResponse {
	return BusinessResponse{ID: b.ID, Name: b.Name, Email: b.Email, Phone: b.Phone}
}

// CreateBranchRequest creates a branch under a business.
type CreateBranchRequest struct {
	BusinessID int64  `json:"business_id" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Address    string `json:"address"`
}

// BranchResponse is the wire shape of a branch.
type BranchResponse struct {
	ID         int64  `json:"id"`
	BusinessID int64  `json:"business_id"`
	Name       string `json:"name"`
	Address    string `json:"address"`
}

// ToBranchResponse converts a domain branch to its wire shape.
func ToBranchResponse(b *domain.Branch) BranchResponse {
	return BranchResponse{ID: b.ID, BusinessID: b.BusinessID, Name: b.Name, Address: b.Address}
}

// ToBranchResponses converts a slice of domain branches.
func ToBranchResponses(branches []domain.Branch) []BranchResponse {
	out := make([]BranchResponse, len(branches))
	for i := range branches {
		out[i] = ToBranchResponse(&branches[i])
	}
	return out
}

// AssignRoleRequest assigns (or replaces) a user's role in a branch.
type AssignRoleRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
	RoleID int64 `json:"role_id" binding:"required"`
}

// BranchMemberResponse is one branch member with display data.
type BranchMemberResponse struct {
	UserID   int64  `json:"user_id"`
	UserName string `json:"user_name"`
	RoleID   int64  `json:"role_id"`
	RoleName string `json:"role_name"`
}

// ToBranchMemberResponses converts joined membership rows.
func ToBranchMemberResponses(members []domain.BranchMember) []BranchMemberResponse {
	out := make([]BranchMemberResponse, len(members))
	for i, m := range members {
		out[i] = BranchMemberResponse{
			UserID:   m.UserID,
			UserName: m.UserName,
			RoleID:   m.RoleID,
			RoleName: m.RoleName,
		}
	}
	return out
}
