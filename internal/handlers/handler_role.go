package handlers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/nexacrm/crm_backend/internal/core/domain"
	portssvc "github.com/nexacrm/crm_backend/internal/core/ports/services"
	"github.com/nexacrm/crm_backend/internal/dto"
	"github.com/nexacrm/crm_backend/internal/middleware"
)

// roleHandler exposes role lifecycle and grant management endpoints.
type roleHandler struct {
	roleService  portssvc.RoleSvcFacade
	grantService portssvc.GrantSvcFacade
	authzService portssvc.AuthorizationSvcFacade
}

func newRoleHandler(rs portssvc.RoleSvcFacade, gs portssvc.GrantSvcFacade, as portssvc.AuthorizationSvcFacade) *roleHandler {
	return &roleHandler{roleService: rs, grantService: gs, authzService: as}
}

// registerRoleRoutes registers role and grant routes, gated on the Roles
// module in the caller's branch scope.
func registerRoleRoutes(rg *gin.RouterGroup, roleService portssvc.RoleSvcFacade, grantService portssvc.GrantSvcFacade, authz portssvc.AuthorizationSvcFacade) {
	h := newRoleHandler(roleService, grantService, authz)

	roles := rg.Group("/roles")
	{
		roles.POST("", middleware.RequirePermission(authz, "Roles", domain.ActionCreate), h.createRole)
		roles.GET("", middleware.RequirePermission(authz, "Roles", domain.ActionView), h.listBranchRoles)
		roles.GET("/:role_id", middleware.RequirePermission(authz, "Roles", domain.ActionView), h.getRole)
		roles.PUT("/:role_id", middleware.RequirePermission(authz, "Roles", domain.ActionUpdate), h.renameRole)
		roles.DELETE("/:role_id", middleware.RequirePermission(authz, "Roles", domain.ActionDelete), h.deleteRole)

		roles.GET("/:role_id/permissions", middleware.RequirePermission(authz, "Roles", domain.ActionView), h.listGrants)
		roles.POST("/:role_id/permissions/assign", middleware.RequirePermission(authz, "Roles", domain.ActionUpdate), h.assignGrants)
		roles.POST("/:role_id/permissions/revoke", middleware.RequirePermission(authz, "Roles", domain.ActionUpdate), h.revokeGrants)
		roles.PUT("/:role_id/permissions", middleware.RequirePermission(authz, "Roles", domain.ActionUpdate), h.setGrants)
		roles.POST("/:role_id/permissions/append", middleware.RequirePermission(authz, "Roles", domain.ActionUpdate), h.appendGrants)
		roles.POST("/:role_id/permissions/remove", middleware.RequirePermission(authz, "Roles", domain.ActionUpdate), h.removeGrants)
	}

	// Any authenticated member may inspect their own effective permissions.
	rg.GET("/my-permissions", middleware.ResolveBranch(), h.myPermissions)
}

// createRole godoc
// @Summary Create a role in a branch
// @Tags roles
// @Accept json
// @Produce json
// @Param role body dto.CreateRoleRequest true "Role details"
// @Success 201 {object} dto.Envelope{data=dto.RoleResponse}
// @Security BearerAuth
// @Router /roles [post]
func (h *roleHandler) createRole(c *gin.Context) {
	var req dto.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(bindingErrorMessage(err)))
		return
	}
	actorID, branchID, ok := requestScope(c)
	if !ok {
		return
	}

	role, err := h.roleService.CreateRole(c.Request.Context(), branchID, req.Name, actorID)
	if err != nil {
		respondError(c, err, "failed to create role")
		return
	}
	c.JSON(http.StatusCreated, dto.OK(dto.ToRoleResponse(role)))
}

// listBranchRoles godoc
// @Summary List the branch's roles
// @Tags roles
// @Produce json
// @Success 200 {object} dto.Envelope{data=[]dto.RoleResponse}
// @Security BearerAuth
// @Router /roles [get]
func (h *roleHandler) listBranchRoles(c *gin.Context) {
	_, branchID, ok := requestScope(c)
	if !ok {
		return
	}
	roles, err := h.roleService.ListBranchRoles(c.Request.Context(), branchID)
	if err != nil {
		respondError(c, err, "failed to list roles")
		return
	}
	out := make([]dto.RoleResponse, len(roles))
	for i := range roles {
		out[i] = dto.ToRoleResponse(&roles[i])
	}
	c.JSON(http.StatusOK, dto.OK(out))
}

// getRole godoc
// @Summary Get a role
// @Tags roles
// @Produce json
// @Param role_id path int true "Role ID"
// @Success 200 {object} dto.Envelope{data=dto.RoleResponse}
// @Failure 404 {object} dto.Envelope
// @Security BearerAuth
// @Router /roles/{role_id} [get]
func (h *roleHandler) getRole(c *gin.Context) {
	roleID, ok := parseIDParam(c, "role_id")
	if !ok {
		return
	}
	_, branchID, ok := requestScope(c)
	if !ok {
		return
	}
	role, err := h.roleService.GetRole(c.Request.Context(), roleID, branchID)
	if err != nil {
		respondError(c, err, "failed to get role")
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToRoleResponse(role)))
}

// renameRole godoc
// @Summary Rename a role
// @Tags roles
// @Accept json
// @Produce json
// @Param role_id path int true "Role ID"
// @Param role body dto.UpdateRoleRequest true "New name"
// @Success 200 {object} dto.Envelope
// @Security BearerAuth
// @Router /roles/{role_id} [put]
func (h *roleHandler) renameRole(c *gin.Context) {
	roleID, ok := parseIDParam(c, "role_id")
	if !ok {
		return
	}
	var req dto.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(bindingErrorMessage(err)))
		return
	}
	actorID, branchID, ok := requestScope(c)
	if !ok {
		return
	}

	if err := h.roleService.RenameRole(c.Request.Context(), roleID, branchID, req.Name, actorID); err != nil {
		respondError(c, err, "failed to rename role")
		return
	}
	c.JSON(http.StatusOK, dto.OK(nil))
}

// deleteRole godoc
// @Summary Delete a role
// @Tags roles
// @Produce json
// @Param role_id path int true "Role ID"
// @Success 200 {object} dto.Envelope
// @Failure 409 {object} dto.Envelope
// @Security BearerAuth
// @Router /roles/{role_id} [delete]
func (h *roleHandler) deleteRole(c *gin.Context) {
	roleID, ok := parseIDParam(c, "role_id")
	if !ok {
		return
	}
	_, branchID, ok := requestScope(c)
	if !ok {
		return
	}
	if err := h.roleService.DeleteRole(c.Request.Context(), roleID, branchID); err != nil {
		respondError(c, err, "failed to delete role")
		return
	}
	c.JSON(http.StatusOK, dto.OK(nil))
}

// listGrants godoc
// @Summary List a role's grants grouped by module
// @Tags roles
// @Produce json
// @Param role_id path int true "Role ID"
// @Success 200 {object} dto.Envelope{data=dto.RoleGrantsResponse}
// @Security BearerAuth
// @Router /roles/{role_id}/permissions [get]
func (h *roleHandler) listGrants(c *gin.Context) {
	roleID, ok := parseIDParam(c, "role_id")
	if !ok {
		return
	}
	_, branchID, ok := requestScope(c)
	if !ok {
		return
	}
	groups, err := h.grantService.ListRoleGrants(c.Request.Context(), roleID, branchID)
	if err != nil {
		respondError(c, err, "failed to list role grants")
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToRoleGrantsResponse(roleID, groups)))
}

// assignGrants godoc
// @Summary Assign permissions to a role
// @Description Accepts explicit permission IDs and/or module-action descriptors; already-granted permissions are skipped
// @Tags roles
// @Accept json
// @Produce json
// @Param role_id path int true "Role ID"
// @Param grants body dto.GrantRequest true "Permission selection"
// @Success 200 {object} dto.Envelope{data=dto.RoleGrantsResponse}
// @Failure 400 {object} dto.Envelope
// @Security BearerAuth
// @Router /roles/{role_id}/permissions/assign [post]
func (h *roleHandler) assignGrants(c *gin.Context) {
	roleID, ok := parseIDParam(c, "role_id")
	if !ok {
		return
	}
	var req dto.GrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(bindingErrorMessage(err)))
		return
	}
	_, branchID, ok := requestScope(c)
	if !ok {
		return
	}
	if err := h.grantService.AssignPermissions(c.Request.Context(), roleID, branchID, req); err != nil {
		respondError(c, err, "failed to assign permissions")
		return
	}
	h.respondWithGrants(c, roleID, branchID)
}

// revokeGrants godoc
// @Summary Revoke permissions from a role
// @Tags roles
// @Accept json
// @Produce json
// @Param role_id path int true "Role ID"
// @Param grants body dto.GrantRequest true "Permission selection"
// @Success 200 {object} dto.Envelope{data=dto.RoleGrantsResponse}
// @Security BearerAuth
// @Router /roles/{role_id}/permissions/revoke [post]
func (h *roleHandler) revokeGrants(c *gin.Context) {
	roleID, ok := parseIDParam(c, "role_id")
	if !ok {
		return
	}
	var req dto.GrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(bindingErrorMessage(err)))
		return
	}
	_, branchID, ok := requestScope(c)
	if !ok {
		return
	}
	if err := h.grantService.RevokePermissions(c.Request.Context(), roleID, branchID, req); err != nil {
		respondError(c, err, "failed to revoke permissions")
		return
	}
	h.respondWithGrants(c, roleID, branchID)
}

// setGrants godoc
// @Summary Replace a role's grants wholesale
// @Description Applies the symmetric difference against the current grant set in one transaction
// @Tags roles
// @Accept json
// @Produce json
// @Param role_id path int true "Role ID"
// @Param grants body dto.SetGrantsRequest true "Desired permission IDs"
// @Success 200 {object} dto.Envelope{data=dto.RoleGrantsResponse}
// @Security BearerAuth
// @Router /roles/{role_id}/permissions [put]
func (h *roleHandler) setGrants(c *gin.Context) {
	roleID, ok := parseIDParam(c, "role_id")
	if !ok {
		return
	}
	var req dto.SetGrantsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(bindingErrorMessage(err)))
		return
	}
	_, branchID, ok := requestScope(c)
	if !ok {
		return
	}
	if err := h.grantService.SetPermissions(c.Request.Context(), roleID, branchID, req.PermissionIDs); err != nil {
		respondError(c, err, "failed to set permissions")
		return
	}
	h.respondWithGrants(c, roleID, branchID)
}

// appendGrants godoc
// @Summary Append permissions by explicit IDs
// @Tags roles
// @Accept json
// @Produce json
// @Param role_id path int true "Role ID"
// @Param grants body dto.GrantIDsRequest true "Permission IDs"
// @Success 200 {object} dto.Envelope{data=dto.RoleGrantsResponse}
// @Security BearerAuth
// @Router /roles/{role_id}/permissions/append [post]
func (h *roleHandler) appendGrants(c *gin.Context) {
	roleID, ok := parseIDParam(c, "role_id")
	if !ok {
		return
	}
	var req dto.GrantIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(bindingErrorMessage(err)))
		return
	}
	_, branchID, ok := requestScope(c)
	if !ok {
		return
	}
	if err := h.grantService.AppendPermissions(c.Request.Context(), roleID, branchID, req.PermissionIDs); err != nil {
		respondError(c, err, "failed to append permissions")
		return
	}
	h.respondWithGrants(c, roleID, branchID)
}

// removeGrants godoc
// @Summary Remove permissions by explicit IDs
// @Tags roles
// @Accept json
// @Produce json
// @Param role_id path int true "Role ID"
// @Param grants body dto.GrantIDsRequest true "Permission IDs"
// @Success 200 {object} dto.Envelope{data=dto.RoleGrantsResponse}
// @Security BearerAuth
// @Router /roles/{role_id}/permissions/remove [post]
func (h *roleHandler) removeGrants(c *gin.Context) {
	roleID, ok := parseIDParam(c, "role_id")
	if !ok {
		return
	}
	var req dto.GrantIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(bindingErrorMessage(err)))
		return
	}
	_, branchID, ok := requestScope(c)
	if !ok {
		return
	}
	if err := h.grantService.RemovePermissions(c.Request.Context(), roleID, branchID, req.PermissionIDs); err != nil {
		respondError(c, err, "failed to remove permissions")
		return
	}
	h.respondWithGrants(c, roleID, branchID)
}

// myPermissions godoc
// @Summary Resolve the caller's effective permissions in a branch
// @Tags roles
// @Produce json
// @Success 200 {object} dto.Envelope{data=[]string}
// @Security BearerAuth
// @Router /my-permissions [get]
func (h *roleHandler) myPermissions(c *gin.Context) {
	userID, branchID, ok := requestScope(c)
	if !ok {
		return
	}
	set, err := h.authzService.ResolvePermissions(c.Request.Context(), userID, branchID)
	if err != nil {
		respondError(c, err, "failed to resolve permissions")
		return
	}
	codes := make([]string, 0, len(set))
	for code := range set {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	c.JSON(http.StatusOK, dto.OK(codes))
}

// respondWithGrants returns the role's grouped grant list after a mutation.
func (h *roleHandler) respondWithGrants(c *gin.Context, roleID, branchID int64) {
	groups, err := h.grantService.ListRoleGrants(c.Request.Context(), roleID, branchID)
	if err != nil {
		respondError(c, err, "failed to list role grants")
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToRoleGrantsResponse(roleID, groups)))
}
