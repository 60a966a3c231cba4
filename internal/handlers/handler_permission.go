package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nexacrm/crm_backend/internal/core/domain"
	portssvc "github.com/nexacrm/crm_backend/internal/core/ports/services"
	"github.com/nexacrm/crm_backend/internal/dto"
	"github.com/nexacrm/crm_backend/internal/middleware"
)

// permissionHandler exposes the permission catalog maintenance endpoints.
type permissionHandler struct {
	catalogService portssvc.CatalogSvcFacade
}

func newPermissionHandler(cs portssvc.CatalogSvcFacade) *permissionHandler {
	return &permissionHandler{catalogService: cs}
}

// registerPermissionRoutes registers catalog routes. Every mutation is gated
// on the Permissions module in the caller's branch scope.
func registerPermissionRoutes(rg *gin.RouterGroup, catalogService portssvc.CatalogSvcFacade, authz portssvc.AuthorizationSvcFacade) {
	h := newPermissionHandler(catalogService)

	permissions := rg.Group("/permissions")
	{
		permissions.GET("", middleware.RequirePermission(authz, "Permissions", domain.ActionView), h.listCatalog)
		permissions.GET("/:module", middleware.RequirePermission(authz, "Permissions", domain.ActionView), h.listModule)
		permissions.POST("", middleware.RequirePermission(authz, "Permissions", domain.ActionCreate), h.createModules)
		permissions.PUT("/rename", middleware.RequirePermission(authz, "Permissions", domain.ActionUpdate), h.renameModule)
		permissions.PATCH("/:module", middleware.RequirePermission(authz, "Permissions", domain.ActionUpdate), h.patchModule)
		permissions.DELETE("/:module", middleware.RequirePermission(authz, "Permissions", domain.ActionDelete), h.removeModule)
		permissions.DELETE("/:module/:action", middleware.RequirePermission(authz, "Permissions", domain.ActionDelete), h.removeAction)
	}
}

// listCatalog godoc
// @Summary List the permission catalog
// @Tags permissions
// @Produce json
// @Success 200 {object} dto.Envelope{data=[]dto.PermissionResponse}
// @Security BearerAuth
// @Router /permissions [get]
func (h *permissionHandler) listCatalog(c *gin.Context) {
	perms, err := h.catalogService.ListCatalog(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to list permissions")
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToPermissionResponses(perms)))
}

// listModule godoc
// @Summary List one module's permissions
// @Tags permissions
// @Produce json
// @Param module path string true "Module name"
// @Success 200 {object} dto.Envelope{data=[]dto.PermissionResponse}
// @Failure 404 {object} dto.Envelope
// @Security BearerAuth
// @Router /permissions/{module} [get]
func (h *permissionHandler) listModule(c *gin.Context) {
	perms, err := h.catalogService.ListModulePermissions(c.Request.Context(), c.Param("module"))
	if err != nil {
		respondError(c, err, "failed to list module permissions")
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToPermissionResponses(perms)))
}

// createModules godoc
// @Summary Create permission modules
// @Description Creates one permission per allowed action for each named module; existing pairs are skipped
// @Tags permissions
// @Accept json
// @Produce json
// @Param modules body dto.CreateModuleRequest true "Module name(s)"
// @Success 201 {object} dto.Envelope{data=[]dto.PermissionResponse}
// @Security BearerAuth
// @Router /permissions [post]
func (h *permissionHandler) createModules(c *gin.Context) {
	var req dto.CreateModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(bindingErrorMessage(err)))
		return
	}
	actorID, _ := middleware.GetUserIDFromContext(c)

	created, err := h.catalogService.CreateModules(c.Request.Context(), req.ModuleNames(), actorID)
	if err != nil {
		respondError(c, err, "failed to create permission modules")
		return
	}
	c.JSON(http.StatusCreated, dto.OK(dto.ToPermissionResponses(created)))
}

// renameModule godoc
// @Summary Rename a permission module
// @Tags permissions
// @Accept json
// @Produce json
// @Param rename body dto.RenameModuleRequest true "Old and new module names"
// @Success 200 {object} dto.Envelope
// @Failure 409 {object} dto.Envelope
// @Security BearerAuth
// @Router /permissions/rename [put]
func (h *permissionHandler) renameModule(c *gin.Context) {
	var req dto.RenameModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(bindingErrorMessage(err)))
		return
	}
	actorID, _ := middleware.GetUserIDFromContext(c)

	renamed, err := h.catalogService.RenameModule(c.Request.Context(), req.Module, req.NewModule, actorID)
	if err != nil {
		respondError(c, err, "failed to rename module")
		return
	}
	c.JSON(http.StatusOK, dto.OK(gin.H{"renamed": renamed}))
}

// patchModule godoc
// @Summary Add and remove actions for a module
// @Description Applies an add/remove batch; an action in both lists is removed. Returns full diagnostics.
// @Tags permissions
// @Accept json
// @Produce json
// @Param module path string true "Module name"
// @Param patch body dto.PatchModuleActionsRequest true "Actions to add and remove"
// @Success 200 {object} dto.Envelope{data=dto.ModulePatchResult}
// @Security BearerAuth
// @Router /permissions/{module} [patch]
func (h *permissionHandler) patchModule(c *gin.Context) {
	var req dto.PatchModuleActionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(bindingErrorMessage(err)))
		return
	}
	actorID, _ := middleware.GetUserIDFromContext(c)

	result, err := h.catalogService.PatchModuleActions(c.Request.Context(), c.Param("module"), req.Add, req.Remove, actorID)
	if err != nil {
		respondError(c, err, "failed to patch module actions")
		return
	}
	c.JSON(http.StatusOK, dto.OK(result))
}

// removeModule godoc
// @Summary Remove a permission module
// @Description Deletes all of the module's permissions after purging grants referencing them
// @Tags permissions
// @Produce json
// @Param module path string true "Module name"
// @Success 200 {object} dto.Envelope
// @Failure 404 {object} dto.Envelope
// @Security BearerAuth
// @Router /permissions/{module} [delete]
func (h *permissionHandler) removeModule(c *gin.Context) {
	actorID, _ := middleware.GetUserIDFromContext(c)

	if err := h.catalogService.RemoveModule(c.Request.Context(), c.Param("module"), actorID); err != nil {
		respondError(c, err, "failed to remove module")
		return
	}
	c.JSON(http.StatusOK, dto.OK(nil))
}

// removeAction godoc
// @Summary Remove a single module action
// @Tags permissions
// @Produce json
// @Param module path string true "Module name"
// @Param action path string true "Action name"
// @Success 200 {object} dto.Envelope
// @Failure 404 {object} dto.Envelope
// @Security BearerAuth
// @Router /permissions/{module}/{action} [delete]
func (h *permissionHandler) removeAction(c *gin.Context) {
	actorID, _ := middleware.GetUserIDFromContext(c)
	action := domain.PermissionAction(c.Param("action"))

	if err := h.catalogService.RemoveAction(c.Request.Context(), c.Param("module"), action, actorID); err != nil {
		respondError(c, err, "failed to remove permission")
		return
	}
	c.JSON(http.StatusOK, dto.OK(nil))
}
