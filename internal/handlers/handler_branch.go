package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nexacrm/crm_backend/internal/core/domain"
	portssvc "github.com/nexacrm/crm_backend/internal/core/ports/services"
	"github.com/nexacrm/crm_backend/internal/dto"
	"github.com/nexacrm/crm_backend/internal/middleware"
)

// branchHandler exposes business, branch and membership endpoints.
type branchHandler struct {
	businessService   portssvc.BusinessSvcFacade
	branchService     portssvc.BranchSvcFacade
	membershipService portssvc.MembershipSvcFacade
}

func newBranchHandler(bs portssvc.BusinessSvcFacade, brs portssvc.BranchSvcFacade, ms portssvc.MembershipSvcFacade) *branchHandler {
	return &branchHandler{businessService: bs, branchService: brs, membershipService: ms}
}

// registerBranchRoutes registers business and branch routes. Creating a
// business or a branch needs only authentication: the creator cannot already
// hold a permission in a branch that does not exist yet, so branch creation
// bootstraps its own Super Admin role for the creator. Membership management
// is gated on the Roles module within the target branch.
func registerBranchRoutes(rg *gin.RouterGroup, businessService portssvc.BusinessSvcFacade, branchService portssvc.BranchSvcFacade, membershipService portssvc.MembershipSvcFacade, authz portssvc.AuthorizationSvcFacade) {
	h := newBranchHandler(businessService, branchService, membershipService)

	businesses := rg.Group("/businesses")
	{
		businesses.POST("", h.createBusiness)
		businesses.GET("/:business_id", h.getBusiness)
		businesses.GET("", h.listBusinesses)
		businesses.GET("/:business_id/branches", h.listBranches)
	}

	branches := rg.Group("/branches")
	{
		branches.POST("", h.createBranch)
		branches.GET("/:branch_id", h.getBranch)
		branches.POST("/:branch_id/members", middleware.RequirePermission(authz, "Roles", domain.ActionUpdate), h.assignRole)
		branches.GET("/:branch_id/members", middleware.RequirePermission(authz, "Roles", domain.ActionView), h.listMembers)
		branches.DELETE("/:branch_id/members/:user_id", middleware.RequirePermission(authz, "Roles", domain.ActionUpdate), h.removeMember)
	}
}

// createBusiness godoc
// @Summary Create a business
// @Tags businesses
// @Accept json
// @Produce json
// @Param business body dto.CreateBusinessRequest true "Business data"
// @Success 201 {object} dto.Envelope{data=dto.BusinessResponse}
// @Security BearerAuth
// @Router /businesses [post]
func (h *branchHandler) createBusiness(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("authentication required"))
		return
	}
	var req dto.CreateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(bindingErrorMessage(err)))
		return
	}
	business, err := h.businessService.CreateBusiness(c.Request.Context(), req.Name, req.Email, req.Phone, userID)
	if err != nil {
		respondError(c, err, "failed to create business")
		return
	}
	c.JSON(http.StatusCreated, dto.OK(dto.ToBusinessResponse(business)))
}

// getBusiness godoc
// @Summary Get one business
// @Tags businesses
// @Produce json
// @Param business_id path int true "Business ID"
// @Success 200 {object} dto.Envelope{data=dto.BusinessResponse}
// @Failure 404 {object} dto.Envelope
// @Security BearerAuth
// @Router /businesses/{business_id} [get]
func (h *branchHandler) getBusiness(c *gin.Context) {
	businessID, ok := parseIDParam(c, "business_id")
	if !ok {
		return
	}
	business, err := h.businessService.GetBusiness(c.Request.Context(), businessID)
	if err != nil {
		respondError(c, err, "failed to get business")
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToBusinessResponse(business)))
}

// listBusinesses godoc
// @Summary List businesses
// @Tags businesses
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} dto.Envelope{data=[]dto.BusinessResponse}
// @Security BearerAuth
// @Router /businesses [get]
func (h *branchHandler) listBusinesses(c *gin.Context) {
	params := bindListParams(c)
	businesses, err := h.businessService.ListBusinesses(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		respondError(c, err, "failed to list businesses")
		return
	}
	out := make([]dto.BusinessResponse, len(businesses))
	for i := range businesses {
		out[i] = dto.ToBusinessResponse(&businesses[i])
	}
	c.JSON(http.StatusOK, dto.OK(out))
}

// listBranches godoc
// @Summary List a business's branches
// @Tags businesses
// @Produce json
// @Param business_id path int true "Business ID"
// @Success 200 {object} dto.Envelope{data=[]dto.BranchResponse}
// @Security BearerAuth
// @Router /businesses/{business_id}/branches [get]
func (h *branchHandler) listBranches(c *gin.Context) {
	businessID, ok := parseIDParam(c, "business_id")
	if !ok {
		return
	}
	branches, err := h.branchService.ListBranches(c.Request.Context(), businessID)
	if err != nil {
		respondError(c, err, "failed to list branches")
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToBranchResponses(branches)))
}

// createBranch godoc
// @Summary Create a branch
// @Description Creates the branch, seeds its Super Admin role with the full permission catalog and assigns it to the caller, all in one transaction
// @Tags branches
// @Accept json
// @Produce json
// @Param branch body dto.CreateBranchRequest true "Branch data"
// @Success 201 {object} dto.Envelope{data=dto.BranchResponse}
// @Failure 404 {object} dto.Envelope
// @Security BearerAuth
// @Router /branches [post]
func (h *branchHandler) createBranch(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("authentication required"))
		return
	}
	var req dto.CreateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(bindingErrorMessage(err)))
		return
	}
	branch, err := h.branchService.CreateBranch(c.Request.Context(), req.BusinessID, req.Name, req.Address, userID)
	if err != nil {
		respondError(c, err, "failed to create branch")
		return
	}
	c.JSON(http.StatusCreated, dto.OK(dto.ToBranchResponse(branch)))
}

// getBranch godoc
// @Summary Get one branch
// @Tags branches
// @Produce json
// @Param branch_id path int true "Branch ID"
// @Success 200 {object} dto.Envelope{data=dto.BranchResponse}
// @Failure 404 {object} dto.Envelope
// @Security BearerAuth
// @Router /branches/{branch_id} [get]
func (h *branchHandler) getBranch(c *gin.Context) {
	branchID, ok := parseIDParam(c, "branch_id")
	if !ok {
		return
	}
	branch, err := h.branchService.GetBranch(c.Request.Context(), branchID)
	if err != nil {
		respondError(c, err, "failed to get branch")
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToBranchResponse(branch)))
}

// assignRole godoc
// @Summary Assign a role to a user in a branch
// @Description A user who already holds a role in the branch has it replaced
// @Tags branches
// @Accept json
// @Produce json
// @Param branch_id path int true "Branch ID"
// @Param assignment body dto.AssignRoleRequest true "User and role"
// @Success 200 {object} dto.Envelope
// @Failure 400 {object} dto.Envelope
// @Failure 404 {object} dto.Envelope
// @Security BearerAuth
// @Router /branches/{branch_id}/members [post]
func (h *branchHandler) assignRole(c *gin.Context) {
	actorID, branchID, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(bindingErrorMessage(err)))
		return
	}
	membership, err := h.membershipService.AssignRole(c.Request.Context(), req.UserID, branchID, req.RoleID, actorID)
	if err != nil {
		respondError(c, err, "failed to assign role")
		return
	}
	c.JSON(http.StatusOK, dto.OK(gin.H{
		"user_id":   membership.UserID,
		"branch_id": membership.BranchID,
		"role_id":   membership.RoleID,
	}))
}

// listMembers godoc
// @Summary List a branch's members
// @Tags branches
// @Produce json
// @Param branch_id path int true "Branch ID"
// @Success 200 {object} dto.Envelope{data=[]dto.BranchMemberResponse}
// @Security BearerAuth
// @Router /branches/{branch_id}/members [get]
func (h *branchHandler) listMembers(c *gin.Context) {
	_, branchID, ok := requestScope(c)
	if !ok {
		return
	}
	members, err := h.membershipService.ListBranchMembers(c.Request.Context(), branchID)
	if err != nil {
		respondError(c, err, "failed to list branch members")
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToBranchMemberResponses(members)))
}

// removeMember godoc
// @Summary Remove a user from a branch
// @Tags branches
// @Produce json
// @Param branch_id path int true "Branch ID"
// @Param user_id path int true "User ID"
// @Success 200 {object} dto.Envelope
// @Failure 404 {object} dto.Envelope
// @Security BearerAuth
// @Router /branches/{branch_id}/members/{user_id} [delete]
func (h *branchHandler) removeMember(c *gin.Context) {
	_, branchID, ok := requestScope(c)
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}
	if err := h.membershipService.RemoveMember(c.Request.Context(), userID, branchID); err != nil {
		respondError(c, err, "failed to remove branch member")
		return
	}
	c.JSON(http.StatusOK, dto.OK(gin.H{"removed": true}))
}
