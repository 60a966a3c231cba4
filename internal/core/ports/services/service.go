package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Catalog       CatalogSvcFacade
	Grants        GrantSvcFacade
	Roles         RoleSvcFacade
	Authorization AuthorizationSvcFacade
	ActivityLog   ActivityLogSvcFacade
	Business      BusinessSvcFacade
	Branch        BranchSvcFacade
	Membership    MembershipSvcFacade
	User          UserSvcFacade
	Lead          LeadSvcFacade
	Task          TaskSvcFacade
	Call          CallSvcFacade
	Reminder      ReminderSvcFacade
	Todo          TodoSvcFacade
}
