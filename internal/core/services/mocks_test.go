package services_test

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"github.com/nexacrm/crm_backend/internal/core/domain"
)

// --- Mock PermissionRepository (based on CatalogService/GrantService usage) ---
type MockPermissionRepository struct {
	mock.Mock
	FindPermissionsByIDsFn         func(ctx context.Context, ids []int64) ([]domain.Permission, error)
	FindPermissionByModuleActionFn func(ctx context.Context, module string, action domain.PermissionAction) (*domain.Permission, error)
}

func (m *MockPermissionRepository) FindPermissionsByIDs(ctx context.Context, ids []int64) ([]domain.Permission, error) {
	if m.FindPermissionsByIDsFn != nil {
		return m.FindPermissionsByIDsFn(ctx, ids)
	}
	args := m.Called(ctx, ids)
	var perms []domain.Permission
	if args.Get(0) != nil {
		perms = args.Get(0).([]domain.Permission)
	}
	return perms, args.Error(1)
}

func (m *MockPermissionRepository) FindPermissionsByModule(ctx context.Context, module string) ([]domain.Permission, error) {
	args := m.Called(ctx, module)
	var perms []domain.Permission
	if args.Get(0) != nil {
		perms = args.Get(0).([]domain.Permission)
	}
	return perms, args.Error(1)
}

func (m *MockPermissionRepository) FindPermissionByModuleAction(ctx context.Context, module string, action domain.PermissionAction) (*domain.Permission, error) {
	if m.FindPermissionByModuleActionFn != nil {
		return m.FindPermissionByModuleActionFn(ctx, module, action)
	}
	args := m.Called(ctx, module, action)
	var perm *domain.Permission
	if args.Get(0) != nil {
		perm = args.Get(0).(*domain.Permission)
	}
	return perm, args.Error(1)
}

func (m *MockPermissionRepository) ListPermissions(ctx context.Context) ([]domain.Permission, error) {
	args := m.Called(ctx)
	var perms []domain.Permission
	if args.Get(0) != nil {
		perms = args.Get(0).([]domain.Permission)
	}
	return perms, args.Error(1)
}

func (m *MockPermissionRepository) InsertPermissionsInTx(ctx context.Context, tx pgx.Tx, module string, actions []domain.PermissionAction) ([]domain.Permission, error) {
	args := m.Called(ctx, tx, module, actions)
	var perms []domain.Permission
	if args.Get(0) != nil {
		perms = args.Get(0).([]domain.Permission)
	}
	return perms, args.Error(1)
}

func (m *MockPermissionRepository) RenameModuleInTx(ctx context.Context, tx pgx.Tx, oldModule, newModule string) (int64, error) {
	args := m.Called(ctx, tx, oldModule, newModule)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPermissionRepository) DeletePermissionsInTx(ctx context.Context, tx pgx.Tx, ids []int64) error {
	args := m.Called(ctx, tx, ids)
	return args.Error(0)
}

func (m *MockPermissionRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	var tx pgx.Tx
	if args.Get(0) != nil {
		tx = args.Get(0).(pgx.Tx)
	}
	return tx, args.Error(1)
}

func (m *MockPermissionRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockPermissionRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock RoleRepository (based on GrantService/RoleService usage) ---
type MockRoleRepository struct {
	mock.Mock
	FindRoleByIDFn func(ctx context.Context, roleID int64) (*domain.Role, error)
	SaveRoleInTxFn func(ctx context.Context, tx pgx.Tx, role *domain.Role) error
	AddGrantsFn    func(ctx context.Context, tx pgx.Tx, roleID int64, permissionIDs []int64) error
	RemoveGrantsFn func(ctx context.Context, tx pgx.Tx, roleID int64, permissionIDs []int64) error
}

func (m *MockRoleRepository) FindRoleByID(ctx context.Context, roleID int64) (*domain.Role, error) {
	if m.FindRoleByIDFn != nil {
		return m.FindRoleByIDFn(ctx, roleID)
	}
	args := m.Called(ctx, roleID)
	var role *domain.Role
	if args.Get(0) != nil {
		role = args.Get(0).(*domain.Role)
	}
	return role, args.Error(1)
}

func (m *MockRoleRepository) ListRolesByBranch(ctx context.Context, branchID int64) ([]domain.Role, error) {
	args := m.Called(ctx, branchID)
	var roles []domain.Role
	if args.Get(0) != nil {
		roles = args.Get(0).([]domain.Role)
	}
	return roles, args.Error(1)
}

func (m *MockRoleRepository) ListGrantedPermissionIDs(ctx context.Context, roleID int64) ([]int64, error) {
	args := m.Called(ctx, roleID)
	var ids []int64
	if args.Get(0) != nil {
		ids = args.Get(0).([]int64)
	}
	return ids, args.Error(1)
}

func (m *MockRoleRepository) ListGrantedPermissions(ctx context.Context, roleID int64) ([]domain.Permission, error) {
	args := m.Called(ctx, roleID)
	var perms []domain.Permission
	if args.Get(0) != nil {
		perms = args.Get(0).([]domain.Permission)
	}
	return perms, args.Error(1)
}

func (m *MockRoleRepository) SaveRole(ctx context.Context, role *domain.Role) error {
	args := m.Called(ctx, role)
	return args.Error(0)
}

func (m *MockRoleRepository) SaveRoleInTx(ctx context.Context, tx pgx.Tx, role *domain.Role) error {
	if m.SaveRoleInTxFn != nil {
		return m.SaveRoleInTxFn(ctx, tx, role)
	}
	args := m.Called(ctx, tx, role)
	return args.Error(0)
}

func (m *MockRoleRepository) UpdateRoleName(ctx context.Context, roleID int64, name string, updatedBy int64) error {
	args := m.Called(ctx, roleID, name, updatedBy)
	return args.Error(0)
}

func (m *MockRoleRepository) DeleteRole(ctx context.Context, roleID int64) error {
	args := m.Called(ctx, roleID)
	return args.Error(0)
}

func (m *MockRoleRepository) AddGrantsInTx(ctx context.Context, tx pgx.Tx, roleID int64, permissionIDs []int64) error {
	if m.AddGrantsFn != nil {
		return m.AddGrantsFn(ctx, tx, roleID, permissionIDs)
	}
	args := m.Called(ctx, tx, roleID, permissionIDs)
	return args.Error(0)
}

func (m *MockRoleRepository) RemoveGrantsInTx(ctx context.Context, tx pgx.Tx, roleID int64, permissionIDs []int64) error {
	if m.RemoveGrantsFn != nil {
		return m.RemoveGrantsFn(ctx, tx, roleID, permissionIDs)
	}
	args := m.Called(ctx, tx, roleID, permissionIDs)
	return args.Error(0)
}

func (m *MockRoleRepository) PurgeGrantsByPermissionIDsInTx(ctx context.Context, tx pgx.Tx, permissionIDs []int64) error {
	args := m.Called(ctx, tx, permissionIDs)
	return args.Error(0)
}

func (m *MockRoleRepository) CountGrantsByPermissionIDs(ctx context.Context, permissionIDs []int64) (int64, error) {
	args := m.Called(ctx, permissionIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRoleRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	var tx pgx.Tx
	if args.Get(0) != nil {
		tx = args.Get(0).(pgx.Tx)
	}
	return tx, args.Error(1)
}

func (m *MockRoleRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockRoleRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock MembershipReader (based on AuthorizationService usage) ---
type MockMembershipReader struct {
	mock.Mock
	FindMembershipFn func(ctx context.Context, userID, branchID int64) (*domain.Membership, error)
}

func (m *MockMembershipReader) FindMembership(ctx context.Context, userID, branchID int64) (*domain.Membership, error) {
	if m.FindMembershipFn != nil {
		return m.FindMembershipFn(ctx, userID, branchID)
	}
	args := m.Called(ctx, userID, branchID)
	var membership *domain.Membership
	if args.Get(0) != nil {
		membership = args.Get(0).(*domain.Membership)
	}
	return membership, args.Error(1)
}

func (m *MockMembershipReader) ListMembershipsByBranch(ctx context.Context, branchID int64) ([]domain.BranchMember, error) {
	args := m.Called(ctx, branchID)
	var members []domain.BranchMember
	if args.Get(0) != nil {
		members = args.Get(0).([]domain.BranchMember)
	}
	return members, args.Error(1)
}

func (m *MockMembershipReader) ListMembershipsByUser(ctx context.Context, userID int64) ([]domain.Membership, error) {
	args := m.Called(ctx, userID)
	var memberships []domain.Membership
	if args.Get(0) != nil {
		memberships = args.Get(0).([]domain.Membership)
	}
	return memberships, args.Error(1)
}

// --- Mock ActivityLogRepository (based on ActivityLogService usage) ---
type MockActivityLogRepository struct {
	mock.Mock
	SaveEntryInTxFn func(ctx context.Context, tx pgx.Tx, entry *domain.ActivityLogEntry) error
}

func (m *MockActivityLogRepository) SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry *domain.ActivityLogEntry) error {
	if m.SaveEntryInTxFn != nil {
		return m.SaveEntryInTxFn(ctx, tx, entry)
	}
	args := m.Called(ctx, tx, entry)
	return args.Error(0)
}

func (m *MockActivityLogRepository) ListEntriesByEntity(ctx context.Context, entityID, branchID int64, limit, offset int) ([]domain.ActivityLogEntry, error) {
	args := m.Called(ctx, entityID, branchID, limit, offset)
	var entries []domain.ActivityLogEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.ActivityLogEntry)
	}
	return entries, args.Error(1)
}

func (m *MockActivityLogRepository) ListEntriesByBranch(ctx context.Context, branchID int64, limit, offset int) ([]domain.ActivityLogEntry, error) {
	args := m.Called(ctx, branchID, limit, offset)
	var entries []domain.ActivityLogEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.ActivityLogEntry)
	}
	return entries, args.Error(1)
}

// --- Mock LookupReader (based on ActivityLogService usage) ---
type MockLookupReader struct {
	mock.Mock
	ResolveNamesFn func(ctx context.Context, kind domain.LookupKind, ids []int64) (map[int64]string, error)
}

func (m *MockLookupReader) ResolveNames(ctx context.Context, kind domain.LookupKind, ids []int64) (map[int64]string, error) {
	if m.ResolveNamesFn != nil {
		return m.ResolveNamesFn(ctx, kind, ids)
	}
	args := m.Called(ctx, kind, ids)
	var names map[int64]string
	if args.Get(0) != nil {
		names = args.Get(0).(map[int64]string)
	}
	return names, args.Error(1)
}

func (m *MockLookupReader) ListByKind(ctx context.Context, kind domain.LookupKind) ([]domain.LookupItem, error) {
	args := m.Called(ctx, kind)
	var items []domain.LookupItem
	if args.Get(0) != nil {
		items = args.Get(0).([]domain.LookupItem)
	}
	return items, args.Error(1)
}

// --- Mock LeadRepository (based on LeadService usage) ---
type MockLeadRepository struct {
	mock.Mock
	FindLeadByIDFn func(ctx context.Context, leadID, branchID int64) (*domain.Lead, error)
	SaveLeadInTxFn func(ctx context.Context, tx pgx.Tx, lead *domain.Lead) error
}

func (m *MockLeadRepository) FindLeadByID(ctx context.Context, leadID, branchID int64) (*domain.Lead, error) {
	if m.FindLeadByIDFn != nil {
		return m.FindLeadByIDFn(ctx, leadID, branchID)
	}
	args := m.Called(ctx, leadID, branchID)
	var lead *domain.Lead
	if args.Get(0) != nil {
		lead = args.Get(0).(*domain.Lead)
	}
	return lead, args.Error(1)
}

func (m *MockLeadRepository) ListLeadsByBranch(ctx context.Context, branchID int64, limit, offset int) ([]domain.Lead, error) {
	args := m.Called(ctx, branchID, limit, offset)
	var leads []domain.Lead
	if args.Get(0) != nil {
		leads = args.Get(0).([]domain.Lead)
	}
	return leads, args.Error(1)
}

func (m *MockLeadRepository) SaveLeadInTx(ctx context.Context, tx pgx.Tx, lead *domain.Lead) error {
	if m.SaveLeadInTxFn != nil {
		return m.SaveLeadInTxFn(ctx, tx, lead)
	}
	args := m.Called(ctx, tx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) UpdateLeadInTx(ctx context.Context, tx pgx.Tx, lead *domain.Lead) error {
	args := m.Called(ctx, tx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) DeleteLeadInTx(ctx context.Context, tx pgx.Tx, leadID, branchID int64) error {
	args := m.Called(ctx, tx, leadID, branchID)
	return args.Error(0)
}

func (m *MockLeadRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	var tx pgx.Tx
	if args.Get(0) != nil {
		tx = args.Get(0).(pgx.Tx)
	}
	return tx, args.Error(1)
}

func (m *MockLeadRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockLeadRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock ActivityLogWriterSvc (captures what tracked-entity services log) ---
type MockActivityLogWriter struct {
	mock.Mock
	RecordFn func(ctx context.Context, tx pgx.Tx, entityID, userID, branchID int64, label string, summary []string) error
}

func (m *MockActivityLogWriter) Record(ctx context.Context, tx pgx.Tx, entityID, userID, branchID int64, label string, summary []string) error {
	if m.RecordFn != nil {
		return m.RecordFn(ctx, tx, entityID, userID, branchID, label, summary)
	}
	args := m.Called(ctx, tx, entityID, userID, branchID, label, summary)
	return args.Error(0)
}

// --- Mock BranchRepository (based on BusinessService/BranchService usage) ---
type MockBranchRepository struct {
	mock.Mock
	SaveBranchInTxFn func(ctx context.Context, tx pgx.Tx, branch *domain.Branch) error
}

func (m *MockBranchRepository) FindBusinessByID(ctx context.Context, businessID int64) (*domain.Business, error) {
	args := m.Called(ctx, businessID)
	var business *domain.Business
	if args.Get(0) != nil {
		business = args.Get(0).(*domain.Business)
	}
	return business, args.Error(1)
}

func (m *MockBranchRepository) ListBusinesses(ctx context.Context, limit, offset int) ([]domain.Business, error) {
	args := m.Called(ctx, limit, offset)
	var businesses []domain.Business
	if args.Get(0) != nil {
		businesses = args.Get(0).([]domain.Business)
	}
	return businesses, args.Error(1)
}

func (m *MockBranchRepository) SaveBusiness(ctx context.Context, business *domain.Business) error {
	args := m.Called(ctx, business)
	return args.Error(0)
}

func (m *MockBranchRepository) UpdateBusiness(ctx context.Context, business *domain.Business) error {
	args := m.Called(ctx, business)
	return args.Error(0)
}

func (m *MockBranchRepository) DeleteBusiness(ctx context.Context, businessID int64) error {
	args := m.Called(ctx, businessID)
	return args.Error(0)
}

func (m *MockBranchRepository) FindBranchByID(ctx context.Context, branchID int64) (*domain.Branch, error) {
	args := m.Called(ctx, branchID)
	var branch *domain.Branch
	if args.Get(0) != nil {
		branch = args.Get(0).(*domain.Branch)
	}
	return branch, args.Error(1)
}

func (m *MockBranchRepository) ListBranchesByBusiness(ctx context.Context, businessID int64) ([]domain.Branch, error) {
	args := m.Called(ctx, businessID)
	var branches []domain.Branch
	if args.Get(0) != nil {
		branches = args.Get(0).([]domain.Branch)
	}
	return branches, args.Error(1)
}

func (m *MockBranchRepository) SaveBranchInTx(ctx context.Context, tx pgx.Tx, branch *domain.Branch) error {
	if m.SaveBranchInTxFn != nil {
		return m.SaveBranchInTxFn(ctx, tx, branch)
	}
	args := m.Called(ctx, tx, branch)
	return args.Error(0)
}

func (m *MockBranchRepository) UpdateBranch(ctx context.Context, branch *domain.Branch) error {
	args := m.Called(ctx, branch)
	return args.Error(0)
}

func (m *MockBranchRepository) DeleteBranch(ctx context.Context, branchID int64) error {
	args := m.Called(ctx, branchID)
	return args.Error(0)
}

func (m *MockBranchRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	var tx pgx.Tx
	if args.Get(0) != nil {
		tx = args.Get(0).(pgx.Tx)
	}
	return tx, args.Error(1)
}

func (m *MockBranchRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockBranchRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock MembershipRepository (writer side, based on MembershipService/BranchService usage) ---
type MockMembershipRepository struct {
	MockMembershipReader
}

func (m *MockMembershipRepository) UpsertMembership(ctx context.Context, membership *domain.Membership) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *MockMembershipRepository) UpsertMembershipInTx(ctx context.Context, tx pgx.Tx, membership *domain.Membership) error {
	args := m.Called(ctx, tx, membership)
	return args.Error(0)
}

func (m *MockMembershipRepository) DeleteMembership(ctx context.Context, userID, branchID int64) error {
	args := m.Called(ctx, userID, branchID)
	return args.Error(0)
}

func (m *MockMembershipRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	var tx pgx.Tx
	if args.Get(0) != nil {
		tx = args.Get(0).(pgx.Tx)
	}
	return tx, args.Error(1)
}

func (m *MockMembershipRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockMembershipRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock UserReader ---
type MockUserReader struct {
	mock.Mock
}

func (m *MockUserReader) FindUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserReader) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserReader) FindUsersByIDs(ctx context.Context, ids []int64) ([]domain.User, error) {
	args := m.Called(ctx, ids)
	var users []domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]domain.User)
	}
	return users, args.Error(1)
}

func (m *MockUserReader) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	var users []domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]domain.User)
	}
	return users, args.Error(1)
}

// --- Mock UserRepository (based on UserService usage) ---
type MockUserRepository struct {
	MockUserReader
	SaveUserFn func(ctx context.Context, user *domain.User) error
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user *domain.User) error {
	if m.SaveUserFn != nil {
		return m.SaveUserFn(ctx, user)
	}
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) MarkUserDeleted(ctx context.Context, userID int64, deleterUserID int64) error {
	args := m.Called(ctx, userID, deleterUserID)
	return args.Error(0)
}
