package services

import (
	"context"
	"errors"
	"fmt"

	"ram-planner/backend/logging"
	"ram-planner/backend/models"
	"ram-planner/backend/repositories"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationService fronts the Cassandra outbox behind a circuit
// breaker so a struggling cluster cannot stall request handling.
type NotificationService struct {
	repo *repositories.NotificationRepo
	cb   *gobreaker.CircuitBreaker
}

func NewNotificationService(repo *repositories.NotificationRepo, cb *gobreaker.CircuitBreaker) *NotificationService {
	return &NotificationService{repo: repo, cb: cb}
}

func (s *NotificationService) Notify(ctx context.Context, userID primitive.ObjectID, username, message, invitationID string) error {
	notification := models.Notification{
		UserID:              userID.Hex(),
		Username:            username,
		Message:             message,
		ProjectInvitationID: invitationID,
	}

	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.repo.Create(&notification)
	})
	if err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}

	logging.Logger.Infof("Event ID: NOTIFICATION_CREATED, Description: Notification stored for user %s", username)
	return nil
}

// ListForUser returns the caller's notifications newest first.
func (s *NotificationService) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	result, err := s.cb.Execute(func() (interface{}, error) {
		return s.repo.ListByUser(userID.Hex())
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	notifications := result.([]models.Notification)
	if notifications == nil {
		notifications = []models.Notification{}
	}
	return notifications, nil
}

// Delete removes one of the caller's notifications. Ids outside the
// caller's partition are not found by construction.
func (s *NotificationService) Delete(ctx context.Context, userID primitive.ObjectID, notificationID string) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.repo.Delete(userID.Hex(), notificationID)
	})
	if err != nil {
		if isNotificationMissing(err) {
			return fmt.Errorf("%w: notification", ErrNotFound)
		}
		return fmt.Errorf("failed to delete notification: %w", err)
	}

	logging.Logger.Infof("Event ID: NOTIFICATION_DELETED, Description: Notification %s deleted", notificationID)
	return nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID primitive.ObjectID, notificationID string) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.repo.MarkRead(userID.Hex(), notificationID)
	})
	if err != nil {
		if isNotificationMissing(err) {
			return fmt.Errorf("%w: notification", ErrNotFound)
		}
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}
	return nil
}

// RemoveForInvitation drops every notification tied to a resolved
// invitation so stale invites do not linger in the recipient's feed.
func (s *NotificationService) RemoveForInvitation(ctx context.Context, userID primitive.ObjectID, invitationID string) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.repo.DeleteByInvitation(userID.Hex(), invitationID)
	})
	if err != nil {
		return fmt.Errorf("failed to remove invitation notifications: %w", err)
	}
	return nil
}

func isNotificationMissing(err error) bool {
	return errors.Is(err, repositories.ErrNotificationNotFound)
}
