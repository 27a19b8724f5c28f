// Package access computes which customer records an actor may see and
// change. All functions are pure - the actor is always passed in
// explicitly together with already loaded records.
package access

import (
	"strings"

	"github.com/ayaocrm/crm/internal/model"
)

// Visible reports whether actor may see customer. Admins see every
// record, other users see records they own or assist on. Assistant is a
// free-text comma-joined list, so matching is substring containment -
// username "an" matches assistant "alan". Intentionally kept this way,
// the collision case is pinned by tests.
func Visible(c *model.Customer, actor model.Actor) bool {
	if actor.IsAdmin() {
		return true
	}
	if c.MainOwner != nil && *c.MainOwner == actor.Username {
		return true
	}
	return actor.Username != "" && strings.Contains(c.Assistant, actor.Username)
}

// VisibleCustomers filters customers down to the ones actor may see,
// preserving input order
func VisibleCustomers(customers []*model.Customer, actor model.Actor) []*model.Customer {
	if actor.IsAdmin() {
		return customers
	}

	visible := make([]*model.Customer, 0, len(customers))
	for _, c := range customers {
		if Visible(c, actor) {
			visible = append(visible, c)
		}
	}
	return visible
}

// CanDelete reports whether actor may delete customer - admins and the
// main owner only. There is no equivalent guard for updates: any actor
// who can see a record may edit it.
func CanDelete(c *model.Customer, actor model.Actor) bool {
	if actor.IsAdmin() {
		return true
	}
	return c.MainOwner != nil && *c.MainOwner == actor.Username
}
