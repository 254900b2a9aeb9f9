package enums

import "fmt"

// AuditAction tags the kind of change an audit record documents.
type AuditAction string

const (
	AuditActionCreated         AuditAction = "CREATED"
	AuditActionStatusChanged   AuditAction = "STATUS_CHANGED"
	AuditActionPartnerAssigned AuditAction = "PARTNER_ASSIGNED"
	AuditActionCancelled       AuditAction = "CANCELLED"
)

var validAuditActions = []AuditAction{
	AuditActionCreated,
	AuditActionStatusChanged,
	AuditActionPartnerAssigned,
	AuditActionCancelled,
}

// IsValid reports whether the value is a known AuditAction.
func (a AuditAction) IsValid() bool {
	for _, candidate := range validAuditActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAuditAction converts raw input into an AuditAction.
func ParseAuditAction(value string) (AuditAction, error) {
	for _, candidate := range validAuditActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid audit action %q", value)
}
