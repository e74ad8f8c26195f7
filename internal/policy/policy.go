// Package policy derives allowed actions from a resolved identity. All
// authorization rules live here so they can be audited and tested as a unit
// instead of being scattered through handlers.
package policy

import "delivermail/internal/models"

// Action is an endpoint category, not an individual route.
type Action int

const (
	ActionManageTemplates Action = iota
	ActionSendEmail
	ActionViewLogs
	ActionManageAPIKeys
	ActionViewStats
	ActionUseAssistant
	ActionManageBilling
	ActionManageProfile
	ActionAdminUsers
	ActionAdminSystemLogs
	ActionAdminStats
)

// Identity is the caller resolved by the authentication gate. A zero UserID
// means no identity. APIKeyID is set only on the API-key path, in which case
// Scopes bounds the allowed actions.
type Identity struct {
	UserID     uint
	Role       string
	Plan       string
	IsActive   bool
	SessionJTI string
	APIKeyID   *uint
	Scopes     []string
}

func (id Identity) IsAdmin() bool { return id.Role == models.RoleAdmin }

func (id Identity) hasScope(scope string) bool {
	for _, s := range id.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// Allow reports whether the identity may perform the action. Deactivated
// accounts still authenticate but are denied everything here; that is the
// isActive gate, enforced at authorization rather than login.
func Allow(id Identity, a Action) bool {
	if id.UserID == 0 || !id.IsActive {
		return false
	}
	if id.APIKeyID != nil {
		switch a {
		case ActionSendEmail:
			return id.hasScope(models.ScopeSend)
		case ActionManageTemplates:
			return id.hasScope(models.ScopeTemplates)
		case ActionViewLogs:
			return id.hasScope(models.ScopeLogs)
		default:
			return false
		}
	}
	switch a {
	case ActionAdminUsers, ActionAdminSystemLogs, ActionAdminStats:
		return id.IsAdmin()
	default:
		return true
	}
}
