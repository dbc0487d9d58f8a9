package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEffectiveMembersManagerFirst(t *testing.T) {
	manager := Member{ID: primitive.NewObjectID(), Username: "manager"}
	alice := Member{ID: primitive.NewObjectID(), Username: "alice"}
	bob := Member{ID: primitive.NewObjectID(), Username: "bob"}

	project := Project{
		ManagedBy: manager,
		Members:   []Member{alice, bob},
	}

	members := EffectiveMembers(project)
	assert.Equal(t, []Member{manager, alice, bob}, members)
}

func TestEffectiveMembersDeduplicatesManager(t *testing.T) {
	manager := Member{ID: primitive.NewObjectID(), Username: "manager"}
	alice := Member{ID: primitive.NewObjectID(), Username: "alice"}

	// The manager should never be stored in members, but the merged view
	// must stay correct if a stale record still has them there.
	project := Project{
		ManagedBy: manager,
		Members:   []Member{alice, manager, alice},
	}

	members := EffectiveMembers(project)
	assert.Equal(t, []Member{manager, alice}, members)
}

func TestEffectiveMembersNoMembers(t *testing.T) {
	manager := Member{ID: primitive.NewObjectID(), Username: "manager"}
	project := Project{ManagedBy: manager}

	members := EffectiveMembers(project)
	assert.Equal(t, []Member{manager}, members)
}
