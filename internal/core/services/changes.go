package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nexacrm/crm_backend/internal/core/domain"
)

// timestampLayout is the canonical form used when comparing and logging
// date/time fields. Truncating to whole seconds keeps timestamps that differ
// only in serialization precision from registering as changes.
const timestampLayout = "2006-01-02 15:04:05"

func formatTimestamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Truncate(time.Second).Format(timestampLayout)
}

func formatInt64Ref(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func formatDecimal(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

// changeSet accumulates detected field differences for one mutating request
// and renders them as activity-log summary lines.
type changeSet struct {
	changes []domain.FieldChange
}

// track records a difference when the normalized old and new values differ.
func (cs *changeSet) track(field, oldVal, newVal string) {
	if oldVal == newVal {
		return
	}
	cs.changes = append(cs.changes, domain.FieldChange{Field: field, Old: oldVal, New: newVal})
}

func (cs *changeSet) empty() bool {
	return len(cs.changes) == 0
}

// summaryLines renders one line per tracked difference using the marker format
// the renderer parses: **field** for labels, *value* for values.
func (cs *changeSet) summaryLines() []string {
	lines := make([]string, 0, len(cs.changes))
	for _, ch := range cs.changes {
		switch {
		case ch.Old == "":
			lines = append(lines, fmt.Sprintf("Added **%s** *%s*", ch.Field, ch.New))
		case ch.New == "":
			lines = append(lines, fmt.Sprintf("Removed **%s** *%s*", ch.Field, ch.Old))
		default:
			lines = append(lines, fmt.Sprintf("Updated **%s** from *%s* to *%s*", ch.Field, ch.Old, ch.New))
		}
	}
	return lines
}

// label returns the log entry label: the field name when exactly one field
// changed, otherwise a generic per-entity label.
func (cs *changeSet) label(entity string) string {
	if len(cs.changes) == 1 {
		return cs.changes[0].Field
	}
	return entity + " Details Updated"
}
