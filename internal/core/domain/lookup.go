package domain

// LookupKind names a class of lookup entities the activity-log renderer can
// resolve numeric IDs against.
type LookupKind string

const (
	LookupUser         LookupKind = "user"
	LookupLeadStage    LookupKind = "lead_stage"
	LookupLeadSource   LookupKind = "lead_source"
	LookupLeadType     LookupKind = "lead_type"
	LookupCustomerType LookupKind = "customer_type"
	LookupProduct      LookupKind = "product"
	LookupBranch       LookupKind = "branch"
)

// LookupItem is a minimal (ID, Name) projection of a lookup entity.
type LookupItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
