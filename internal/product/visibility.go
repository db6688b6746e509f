package product

import (
	"github.com/nvmanh/techshop-catalog-service/internal/auth"
	"github.com/nvmanh/techshop-catalog-service/internal/model"
)

// EligibleStatuses maps a caller role to the product statuses it may see.
// Admins get nil, meaning no status predicate is applied at all; everyone
// else (including anonymous callers) never sees soft-deleted rows.
func EligibleStatuses(role string) []model.EntityStatus {
	if role == auth.RoleAdmin {
		return nil
	}
	return []model.EntityStatus{model.StatusCreated, model.StatusUpdated}
}

// VisibleTo reports whether a single product may be returned to the role.
func VisibleTo(role string, status model.EntityStatus) bool {
	eligible := EligibleStatuses(role)
	if eligible == nil {
		return true
	}
	for _, s := range eligible {
		if s == status {
			return true
		}
	}
	return false
}
