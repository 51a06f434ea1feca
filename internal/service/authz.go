package service

import (
	"github.com/rudrakalshethra/academy-api/internal/models"
	appErrors "github.com/rudrakalshethra/academy-api/pkg/errors"
)

// Authorize is the single authorization policy for branch-scoped operations.
// Admins act on any branch. Managers act only on their own branch: a target
// branch that differs (explicitly, or via the branch of the ledger being
// acted on) is denied. Students pass only gates with no branch target, which
// in practice limits them to reading their own ledger.
func Authorize(claims *models.JWTClaims, allowed []models.UserRole, targetBranch models.Branch) error {
	if claims == nil {
		return appErrors.ErrUnauthorized
	}

	permitted := false
	for _, role := range allowed {
		if claims.Role == role {
			permitted = true
			break
		}
	}
	if !permitted {
		return appErrors.ErrForbidden
	}

	switch claims.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleManager:
		if targetBranch == "" || targetBranch == claims.Branch {
			return nil
		}
		return appErrors.Clone(appErrors.ErrForbidden, "branch not permitted")
	case models.RoleStudent:
		if targetBranch == "" {
			return nil
		}
		return appErrors.ErrForbidden
	}

	return appErrors.ErrForbidden
}

// ScopeBranch resolves the effective branch filter for listings and
// aggregates. Managers are always pinned to their own branch regardless of
// what they request; admins get the requested branch, defaulting to all.
func ScopeBranch(claims *models.JWTClaims, requested models.Branch) models.Branch {
	if claims == nil {
		return models.BranchAll
	}
	if claims.Role == models.RoleManager {
		return claims.Branch
	}
	if requested == "" {
		return models.BranchAll
	}
	return requested
}
