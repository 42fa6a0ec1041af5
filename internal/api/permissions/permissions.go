// Package permissions holds the access rules as pure predicates over
// (actor, action, owner). Handlers and services compose them with Or
// instead of wiring role checks inline, so the rules stay testable
// without any transport machinery.
package permissions

import "reviewhub/internal/api/models"

// Action is what the caller is trying to do with a resource.
type Action int

const (
	ActionRead Action = iota
	ActionCreate
	ActionUpdate
	ActionDelete
)

// Safe reports whether the action is read-only (GET/HEAD/OPTIONS
// equivalent) and therefore exempt from ownership checks.
func (a Action) Safe() bool {
	return a == ActionRead
}

// Rule decides whether actor may perform action on a resource owned by
// ownerID. A nil actor means the request is unauthenticated. An empty
// ownerID means the check is collection-level (no single object yet).
type Rule func(actor *models.User, action Action, ownerID string) bool

// Or combines rules so that any single allow admits the caller.
func Or(rules ...Rule) Rule {
	return func(actor *models.User, action Action, ownerID string) bool {
		for _, rule := range rules {
			if rule(actor, action, ownerID) {
				return true
			}
		}
		return false
	}
}

// AuthorModeratorOrReadOnly allows safe actions for everyone. Writes need
// an authenticated caller; on a concrete object the caller must be the
// author or hold moderator capability.
func AuthorModeratorOrReadOnly(actor *models.User, action Action, ownerID string) bool {
	if action.Safe() {
		return true
	}
	if actor == nil {
		return false
	}
	if ownerID == "" {
		return true
	}
	return actor.ID == ownerID || actor.IsModerator()
}

// IsAdmin allows only callers with admin capability, at collection and
// object level alike.
func IsAdmin(actor *models.User, action Action, ownerID string) bool {
	return actor != nil && actor.IsAdmin()
}

// EngagementAccess gates reviews and comments: open reads, author or
// moderator writes, with admin granted separately by composition.
var EngagementAccess = Or(AuthorModeratorOrReadOnly, IsAdmin)

// Messages returned with 403 responses, naming the role the caller lacks.
const (
	AdminRequiredMessage          = "administrator role required"
	AuthorModeratorMessage        = "author or moderator role required"
	AuthenticationRequiredMessage = "authentication required"
)
