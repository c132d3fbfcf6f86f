package app

import (
	"tonearm/internal/apperr"
	"tonearm/pkg/domain"
)

// Identity is a verified caller. A nil *Identity means an anonymous
// request.
type Identity struct {
	UserID int64
	Role   domain.Role
}

// IsAdmin reports whether the identity carries the admin role.
func (i *Identity) IsAdmin() bool { return i != nil && i.Role == domain.RoleAdmin }

func requireIdentity(ident *Identity) error {
	if ident == nil {
		return apperr.Unauthenticatedf("authentication required")
	}
	return nil
}

func requireAdmin(ident *Identity) error {
	if err := requireIdentity(ident); err != nil {
		return err
	}
	if ident.Role != domain.RoleAdmin {
		return apperr.Forbiddenf("admin role required")
	}
	return nil
}

// requireSelf gates engagement mutations and status reads: the caller must
// be the subject user. Admins get no bypass; their engagement rows are
// their own.
func requireSelf(ident *Identity, userID int64) error {
	if err := requireIdentity(ident); err != nil {
		return err
	}
	if ident.UserID != userID {
		return apperr.Forbiddenf("not your record")
	}
	return nil
}

// requireSelfOrAdmin gates account management: a user manages their own
// account, an admin manages anyone's.
func requireSelfOrAdmin(ident *Identity, userID int64) error {
	if err := requireIdentity(ident); err != nil {
		return err
	}
	if ident.UserID != userID && ident.Role != domain.RoleAdmin {
		return apperr.Forbiddenf("not your record")
	}
	return nil
}
