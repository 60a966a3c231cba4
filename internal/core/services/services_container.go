package services

import (
	portsrepo "github.com/nexacrm/crm_backend/internal/core/ports/repositories"
	portssvc "github.com/nexacrm/crm_backend/internal/core/ports/services"
)

// NewServiceContainer wires all application services from the repository
// provider and returns the container handlers consume.
func NewServiceContainer(repos *portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	activityLog := NewActivityLogService(repos.ActivityLogRepo, repos.LookupRepo)

	return &portssvc.ServiceContainer{
		Catalog:       NewCatalogService(repos.PermissionRepo, repos.RoleRepo),
		Grants:        NewGrantService(repos.RoleRepo, repos.PermissionRepo),
		Roles:         NewRoleService(repos.RoleRepo, repos.BranchRepo),
		Authorization: NewAuthorizationService(repos.MembershipRepo, repos.RoleRepo),
		ActivityLog:   activityLog,
		Business:      NewBusinessService(repos.BranchRepo),
		Branch:        NewBranchService(repos.BranchRepo, repos.RoleRepo, repos.PermissionRepo, repos.MembershipRepo),
		Membership:    NewMembershipService(repos.MembershipRepo, repos.RoleRepo, repos.UserRepo),
		User:          NewUserService(repos.UserRepo),
		Lead:          NewLeadService(repos.LeadRepo, activityLog),
		Task:          NewTaskService(repos.TaskRepo, repos.LeadRepo, activityLog),
		Call:          NewCallService(repos.CallRepo, repos.LeadRepo, activityLog),
		Reminder:      NewReminderService(repos.ReminderRepo, repos.LeadRepo, activityLog),
		Todo:          NewTodoService(repos.TodoRepo),
	}
}
