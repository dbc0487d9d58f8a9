package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Username     string             `json:"username" bson:"username"`
	Password     string             `json:"-" bson:"password"`
	RegisteredAt time.Time          `json:"registeredAt" bson:"registered_at"`
}

// Member is the slim user projection embedded in projects and tasks,
// and returned from user search.
type Member struct {
	ID       primitive.ObjectID `json:"id" bson:"_id"`
	Username string             `json:"username" bson:"username"`
}

func (u User) AsMember() Member {
	return Member{ID: u.ID, Username: u.Username}
}
