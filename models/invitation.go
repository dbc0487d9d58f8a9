package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProjectInvitation is terminal: it exists only while pending and is
// deleted on accept or decline, whichever comes first.
type ProjectInvitation struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ProjectID primitive.ObjectID `json:"projectId" bson:"project_id"`
	UserID    primitive.ObjectID `json:"userId" bson:"user_id"`
	InvitedBy primitive.ObjectID `json:"invitedBy" bson:"invited_by"`
	CreatedAt time.Time          `json:"createdAt" bson:"created_at"`
}

const (
	InvitationAccept  = "accept"
	InvitationDecline = "decline"
)
