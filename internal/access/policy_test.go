package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ayaocrm/crm/internal/model"
)

var adminActor = model.Actor{Username: "root", Role: model.RoleAdmin}
var aliceActor = model.Actor{Username: "alice", Role: model.RoleUser}
var bobActor = model.Actor{Username: "bob", Role: model.RoleUser}

func owned(owner, assistant string) *model.Customer {
	return &model.Customer{ID: "c1", Name: "ACME", MainOwner: &owner, Assistant: assistant}
}

func unowned(assistant string) *model.Customer {
	return &model.Customer{ID: "c2", Name: "Globex", Assistant: assistant}
}

func TestVisible(t *testing.T) {
	tests := []struct {
		name     string
		customer *model.Customer
		actor    model.Actor
		visible  bool
	}{
		{"admin sees foreign record", owned("bob", ""), adminActor, true},
		{"owner sees own record", owned("alice", ""), aliceActor, true},
		{"assistant sees assisted record", owned("bob", "alice,carol"), aliceActor, true},
		{"plain user does not see foreign record", owned("bob", "carol"), aliceActor, false},
		{"unowned record visible to admin only", unowned(""), bobActor, false},
		{"substring of assistant entry matches", owned("bob", "alan"), model.Actor{Username: "an", Role: model.RoleUser}, true},
		{"empty username never matches assistant", unowned("alan"), model.Actor{Username: "", Role: model.RoleUser}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.visible, Visible(tt.customer, tt.actor))
		})
	}
}

func TestVisibleCustomersPreservesOrder(t *testing.T) {
	own := owned("alice", "")
	assisted := owned("bob", "alice")
	foreign := owned("bob", "carol")

	customers := []*model.Customer{foreign, own, assisted}

	t.Log("plain user gets own and assisted records in input order")
	{
		visible := VisibleCustomers(customers, aliceActor)
		assert.Equal(t, []*model.Customer{own, assisted}, visible)
	}

	t.Log("admin gets every record")
	{
		visible := VisibleCustomers(customers, adminActor)
		assert.Len(t, visible, 3)
	}
}

func TestCanDelete(t *testing.T) {
	c := owned("alice", "bob")

	assert.True(t, CanDelete(c, adminActor), "admin must be allowed to delete any record")
	assert.True(t, CanDelete(c, aliceActor), "main owner must be allowed to delete own record")
	assert.False(t, CanDelete(c, bobActor), "assistant must not be allowed to delete the record")
	assert.False(t, CanDelete(unowned("bob"), bobActor), "unowned record is deletable by admin only")
}
