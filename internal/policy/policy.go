// Package policy holds the single access-control rule set for tasks and
// admin operations. Every operation asks this package before touching
// storage, so the ownership rule lives in exactly one place.
package policy

import (
	"taskflow/internal/apperr"
	"taskflow/internal/model"
)

// Actor is the authenticated identity making a request, as derived from a
// session token. The role is a point-in-time snapshot taken at token issue;
// it goes stale until the next refresh.
type Actor struct {
	ID   string
	Role model.Role
}

// IsAdmin reports whether the actor carries the admin role.
func (a Actor) IsAdmin() bool { return a.Role == model.RoleAdmin }

// Action enumerates the operations the policy decides on.
type Action int

const (
	ActionRead Action = iota
	ActionUpdate
	ActionDelete
)

func (a Action) String() string {
	switch a {
	case ActionRead:
		return "read"
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	}
	return "unknown"
}

// Authorize decides whether actor may perform action on a task owned by
// ownerID. Read, update and delete all follow the same owner-or-admin rule;
// delete deliberately matches update semantics (see DESIGN.md).
func Authorize(actor Actor, action Action, ownerID string) error {
	if actor.ID == "" {
		return apperr.ErrUnauthenticated
	}
	if actor.IsAdmin() || actor.ID == ownerID {
		return nil
	}
	return apperr.ErrForbidden
}

// ListScope narrows a task listing to the set the actor may see. The
// returned owner filter is empty when the actor may see every task.
// Admins see all tasks, optionally narrowed to targetUserID; regular users
// always see only their own, regardless of any requested filter.
func ListScope(actor Actor, targetUserID string) (ownerFilter string, err error) {
	if actor.ID == "" {
		return "", apperr.ErrUnauthenticated
	}
	if actor.IsAdmin() {
		return targetUserID, nil
	}
	return actor.ID, nil
}

// RequireAuthenticated gates operations any signed-in actor may perform.
func RequireAuthenticated(actor Actor) error {
	if actor.ID == "" {
		return apperr.ErrUnauthenticated
	}
	return nil
}

// RequireAdmin gates the admin surface.
func RequireAdmin(actor Actor) error {
	if actor.ID == "" {
		return apperr.ErrUnauthenticated
	}
	if !actor.IsAdmin() {
		return apperr.ErrForbidden
	}
	return nil
}
