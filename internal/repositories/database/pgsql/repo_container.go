package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/nexacrm/crm_backend/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		PermissionRepo:  newPgxPermissionRepository(dbPool),
		RoleRepo:        newPgxRoleRepository(dbPool),
		MembershipRepo:  newPgxMembershipRepository(dbPool),
		ActivityLogRepo: newPgxActivityLogRepository(dbPool),
		LookupRepo:      newPgxLookupRepository(dbPool),
		UserRepo:        newPgxUserRepository(dbPool),
		BranchRepo:      newPgxBranchRepository(dbPool),
		LeadRepo:        newPgxLeadRepository(dbPool),
		TaskRepo:        newPgxTaskRepository(dbPool),
		CallRepo:        newPgxCallRepository(dbPool),
		ReminderRepo:    newPgxReminderRepository(dbPool),
		TodoRepo:        newPgxTodoRepository(dbPool),
	}
}
