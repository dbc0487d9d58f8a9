package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	StatusToDo       TaskStatus = "To Do"
	StatusInProgress TaskStatus = "In Progress"
	StatusDone       TaskStatus = "Done"
)

const (
	MinTaskPriority = 1
	MaxTaskPriority = 5

	MaxTaskDescriptionLength = 10000
)

func ValidTaskStatus(s TaskStatus) bool {
	return s == StatusToDo || s == StatusInProgress || s == StatusDone
}

type Task struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ProjectID   primitive.ObjectID `json:"projectId" bson:"project_id"`
	Name        string             `json:"name" bson:"name"`
	Status      TaskStatus         `json:"status" bson:"status"`
	Priority    int                `json:"priority" bson:"priority"`
	Description string             `json:"description" bson:"description"`
	Assignee    Member             `json:"assignee" bson:"assignee"`
	Approvers   []Member           `json:"approvers" bson:"approvers"`
	Informed    []Member           `json:"informed" bson:"informed"`
	LastChange  time.Time          `json:"lastChange" bson:"last_change"`
}
