package services

import (
	"testing"

	"ram-planner/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testMembers(usernames ...string) []models.Member {
	members := make([]models.Member, len(usernames))
	for i, u := range usernames {
		members[i] = models.Member{ID: primitive.NewObjectID(), Username: u}
	}
	return members
}

func TestBuildRAMMatrix(t *testing.T) {
	members := testMembers("manager", "alice", "bob")

	tasks := []models.Task{
		{
			Name:      "Design",
			Assignee:  members[1],
			Approvers: []models.Member{members[0]},
			Informed:  []models.Member{members[2]},
		},
		{
			Name:     "Review",
			Assignee: members[0],
		},
	}

	matrix := BuildRAMMatrix(tasks, members)

	require.Len(t, matrix, 2)
	assert.Equal(t, []string{"Design", RAMApprover, RAMResponsible, RAMInformed}, matrix[0])
	assert.Equal(t, []string{"Review", RAMResponsible, "", ""}, matrix[1])
}

func TestBuildRAMMatrixAssigneeWinsOverOtherRoles(t *testing.T) {
	members := testMembers("alice")

	tasks := []models.Task{{
		Name:     "Design",
		Assignee: members[0],
		Informed: []models.Member{members[0]},
	}}

	matrix := BuildRAMMatrix(tasks, members)
	assert.Equal(t, RAMResponsible, matrix[0][1])
}

func TestApplyRAMMatrixRoundTrip(t *testing.T) {
	members := testMembers("manager", "alice", "bob")

	tasks := []models.Task{
		{
			ID:        primitive.NewObjectID(),
			Name:      "Design",
			Assignee:  members[1],
			Approvers: []models.Member{members[0]},
			Informed:  []models.Member{members[2]},
		},
	}

	matrix := BuildRAMMatrix(tasks, members)
	updated := ApplyRAMMatrix(matrix, members, tasks)

	require.Len(t, updated, 1)
	assert.Equal(t, members[1], updated[0].Assignee)
	assert.Equal(t, []models.Member{members[0]}, updated[0].Approvers)
	assert.Equal(t, []models.Member{members[2]}, updated[0].Informed)
}

func TestApplyRAMMatrixSingleResponsible(t *testing.T) {
	members := testMembers("alice", "bob")

	tasks := []models.Task{{ID: primitive.NewObjectID(), Name: "Design"}}
	matrix := [][]string{{"Design", RAMResponsible, RAMResponsible}}

	updated := ApplyRAMMatrix(matrix, members, tasks)

	require.Len(t, updated, 1)
	assert.Equal(t, members[0], updated[0].Assignee)
	assert.Equal(t, []models.Member{members[1]}, updated[0].Informed)
	assert.Empty(t, updated[0].Approvers)
}

func TestApplyRAMMatrixIgnoresExtraRows(t *testing.T) {
	members := testMembers("alice")

	tasks := []models.Task{{ID: primitive.NewObjectID(), Name: "Design"}}
	matrix := [][]string{
		{"Design", RAMApprover},
		{"Phantom", RAMResponsible},
	}

	updated := ApplyRAMMatrix(matrix, members, tasks)

	require.Len(t, updated, 1)
	assert.Equal(t, []models.Member{members[0]}, updated[0].Approvers)
}

func TestSetRAMCellDemotesPreviousResponsible(t *testing.T) {
	matrix := [][]string{{"Design", RAMResponsible, ""}}

	setRAMCell(matrix, 0, 2, RAMResponsible)

	assert.Equal(t, RAMInformed, matrix[0][1])
	assert.Equal(t, RAMResponsible, matrix[0][2])
}

func TestSetRAMCellIgnoresOutOfRange(t *testing.T) {
	matrix := [][]string{{"Design", ""}}

	setRAMCell(matrix, 5, 1, RAMResponsible)
	setRAMCell(matrix, 0, 0, RAMResponsible)
	setRAMCell(matrix, 0, 9, RAMResponsible)

	assert.Equal(t, [][]string{{"Design", ""}}, matrix)
}

func TestCheckVersionBump(t *testing.T) {
	assert.NoError(t, checkVersionBump("", "0.0.1"))
	assert.NoError(t, checkVersionBump("1.0.0", "1.0.1"))

	assert.ErrorIs(t, checkVersionBump("1.0.0", "1.0.0"), ErrVersionConflict)
	assert.ErrorIs(t, checkVersionBump("1.0.0", "0.9.9"), ErrVersionConflict)
	assert.ErrorIs(t, checkVersionBump("", "0.0.0"), ErrVersionConflict)
	assert.ErrorIs(t, checkVersionBump("1.0.0", "abc"), ErrValidation)
}
