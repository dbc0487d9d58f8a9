package services

import (
	"ram-planner/backend/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RAM matrix cells. Row i describes tasks[i]: column 0 is the task label,
// column j (j >= 1) the role of members[j-1] on that task.
const (
	RAMResponsible = "O"
	RAMApprover    = "Z"
	RAMInformed    = "P"
)

// BuildRAMMatrix derives the responsibility grid from tasks against the
// ordered member list (manager first, see models.EffectiveMembers).
// The assignee wins the cell when a member holds several roles at once.
func BuildRAMMatrix(tasks []models.Task, members []models.Member) [][]string {
	matrix := make([][]string, len(tasks))
	for i, task := range tasks {
		row := make([]string, len(members)+1)
		row[0] = task.Name
		for j, member := range members {
			switch {
			case task.Assignee.ID == member.ID:
				row[j+1] = RAMResponsible
			case containsMember(task.Approvers, member.ID):
				row[j+1] = RAMApprover
			case containsMember(task.Informed, member.ID):
				row[j+1] = RAMInformed
			}
		}
		matrix[i] = row
	}
	return matrix
}

// ApplyRAMMatrix maps the grid back onto task role fields. Each row keeps
// at most one responsible member: the first "O" becomes the assignee and
// any further "O" cells are read as "P". Rows beyond the task list (labels
// added in the grid editor without a backing task) are ignored.
func ApplyRAMMatrix(matrix [][]string, members []models.Member, tasks []models.Task) []models.Task {
	updated := make([]models.Task, len(tasks))
	copy(updated, tasks)

	for i := range updated {
		if i >= len(matrix) {
			break
		}
		row := matrix[i]

		approvers := []models.Member{}
		informed := []models.Member{}
		assigned := false

		for j, member := range members {
			if j+1 >= len(row) {
				break
			}
			switch row[j+1] {
			case RAMResponsible:
				if !assigned {
					updated[i].Assignee = member
					assigned = true
				} else {
					informed = append(informed, member)
				}
			case RAMApprover:
				approvers = append(approvers, member)
			case RAMInformed:
				informed = append(informed, member)
			}
		}

		updated[i].Approvers = approvers
		updated[i].Informed = informed
	}
	return updated
}

// setRAMCell records a single grid edit. Assigning "O" demotes the row's
// previous responsible member to "P" so each task keeps exactly one owner.
func setRAMCell(matrix [][]string, row, col int, value string) {
	if row < 0 || row >= len(matrix) || col < 1 || col >= len(matrix[row]) {
		return
	}

	if value == RAMResponsible {
		for j := 1; j < len(matrix[row]); j++ {
			if matrix[row][j] == RAMResponsible {
				matrix[row][j] = RAMInformed
			}
		}
	}
	matrix[row][col] = value
}

func containsMember(members []models.Member, id primitive.ObjectID) bool {
	for _, m := range members {
		if m.ID == id {
			return true
		}
	}
	return false
}
