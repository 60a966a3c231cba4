package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	PermissionRepo  PermissionRepositoryWithTx
	RoleRepo        RoleRepositoryWithTx
	MembershipRepo  MembershipRepositoryWithTx
	ActivityLogRepo ActivityLogRepositoryFacade
	LookupRepo      LookupReader
	UserRepo        UserRepositoryFacade
	BranchRepo      BranchRepositoryWithTx
	LeadRepo        LeadRepositoryWithTx
	TaskRepo        TaskRepositoryWithTx
	CallRepo        CallRepositoryWithTx
	ReminderRepo    ReminderRepositoryWithTx
	TodoRepo        TodoRepositoryFacade
}
