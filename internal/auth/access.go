// Package auth implements session resolution and the capability context passed
// into every protected service operation.
package auth

import "sehhaty/internal/models"

// AccessContext carries the resolved account and capability of the caller.
// It is passed explicitly into service operations instead of being looked up
// from ambient state, so authorization decisions are visible at call sites.
type AccessContext struct {
	Account *models.Account
}

// AccountID returns the caller's account ID, or zero for an anonymous caller.
func (a AccessContext) AccountID() uint {
	if a.Account == nil {
		return 0
	}
	return a.Account.ID
}

// IsAdmin reports whether the caller is the reserved administrator.
func (a AccessContext) IsAdmin() bool {
	return a.Account != nil && a.Account.IsAdmin()
}

// Authenticated reports whether the caller carries a resolved account.
func (a AccessContext) Authenticated() bool {
	return a.Account != nil
}
