// Package authz centralises the ownership checks that guard every mutation
// of a teacher-owned subtree. Services consult the Authorizer instead of
// re-deriving the rule per handler.
package authz

import (
	"errors"

	"github.com/smartlab-id/smartlab-api/internal/models"
)

// ErrForbidden indicates the caller may not perform the requested action.
var ErrForbidden = errors.New("caller is not allowed to modify this resource")

// Caller identifies the authenticated user performing an action.
type Caller struct {
	UserID uint
	Role   string
}

// Owned is implemented by resources with a single owning user.
type Owned interface {
	OwnedBy() uint
}

// Authorizer decides whether a caller may mutate an owned resource.
type Authorizer interface {
	CanMutate(caller Caller, resource Owned) error
}

type ownerAuthorizer struct{}

// NewOwnerAuthorizer returns the standard policy: admins may mutate
// anything, everyone else only resources they own.
func NewOwnerAuthorizer() Authorizer {
	return ownerAuthorizer{}
}

func (ownerAuthorizer) CanMutate(caller Caller, resource Owned) error {
	if caller.Role == models.RoleAdmin {
		return nil
	}
	if resource.OwnedBy() == caller.UserID {
		return nil
	}
	return ErrForbidden
}
