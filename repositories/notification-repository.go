package repositories

import (
	"errors"
	"fmt"
	"time"

	"ram-planner/backend/logging"
	"ram-planner/backend/models"

	"github.com/gocql/gocql"
)

// NotificationRepo is the Cassandra-backed outbox. Rows are partitioned by
// recipient and clustered newest-first, so per-user listing needs no sort.
type NotificationRepo struct {
	session *gocql.Session
}

func NewNotificationRepo(host string) (*NotificationRepo, error) {
	cluster := gocql.NewCluster(host)
	cluster.Keyspace = "system"
	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to cassandra: %w", err)
	}

	err = session.Query(
		`CREATE KEYSPACE IF NOT EXISTS notifications
         WITH replication = {
             'class': 'SimpleStrategy',
             'replication_factor': 1
         }`).Exec()
	if err != nil {
		session.Close()
		return nil, fmt.Errorf("failed to create keyspace: %w", err)
	}
	session.Close()

	cluster.Keyspace = "notifications"
	cluster.Consistency = gocql.One
	session, err = cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to notifications keyspace: %w", err)
	}

	logging.Logger.Info("Event ID: CASSANDRA_CONNECTED, Description: Connected to Cassandra notifications keyspace")
	return &NotificationRepo{session: session}, nil
}

func (nr *NotificationRepo) CloseSession() {
	nr.session.Close()
	logging.Logger.Info("Event ID: CASSANDRA_CLOSED, Description: Cassandra session closed")
}

func (nr *NotificationRepo) CreateTable() error {
	err := nr.session.Query(
		`CREATE TABLE IF NOT EXISTS notifications (
			id UUID,
			user_id TEXT,
			username TEXT,
			message TEXT,
			project_invitation_id TEXT,
			created_at TIMESTAMP,
			is_read BOOLEAN,
			PRIMARY KEY ((user_id), created_at, id)
		) WITH CLUSTERING ORDER BY (created_at DESC, id ASC)`).Exec()
	if err != nil {
		return fmt.Errorf("failed to create notifications table: %w", err)
	}
	return nil
}

func (nr *NotificationRepo) Create(notification *models.Notification) error {
	if notification.ID == "" {
		notification.ID = gocql.TimeUUID().String()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}

	err := nr.session.Query(
		`INSERT INTO notifications (id, user_id, username, message, project_invitation_id, created_at, is_read)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		notification.ID, notification.UserID, notification.Username, notification.Message,
		notification.ProjectInvitationID, notification.CreatedAt, notification.IsRead,
	).Exec()
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// ListByUser returns the recipient's notifications newest first.
func (nr *NotificationRepo) ListByUser(userID string) ([]models.Notification, error) {
	query := `SELECT id, user_id, username, message, project_invitation_id, created_at, is_read
			  FROM notifications WHERE user_id = ?`

	iter := nr.session.Query(query, userID).Iter()
	var notifications []models.Notification
	var notification models.Notification

	for iter.Scan(&notification.ID, &notification.UserID, &notification.Username,
		&notification.Message, &notification.ProjectInvitationID, &notification.CreatedAt, &notification.IsRead) {
		notifications = append(notifications, notification)
	}

	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// Delete locates the row inside the recipient's partition first; the full
// primary key (user_id, created_at, id) is needed to remove it.
func (nr *NotificationRepo) Delete(userID, notificationID string) error {
	notification, err := nr.findInPartition(userID, notificationID)
	if err != nil {
		return err
	}

	uuid, err := gocql.ParseUUID(notification.ID)
	if err != nil {
		return fmt.Errorf("invalid notification id: %w", err)
	}

	query := `DELETE FROM notifications WHERE user_id = ? AND created_at = ? AND id = ?`
	if err := nr.session.Query(query, userID, notification.CreatedAt, uuid).Exec(); err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return nil
}

// DeleteByInvitation removes every notification in the recipient's
// partition that references the resolved invitation.
func (nr *NotificationRepo) DeleteByInvitation(userID, invitationID string) error {
	notifications, err := nr.ListByUser(userID)
	if err != nil {
		return err
	}

	for _, n := range notifications {
		if n.ProjectInvitationID != invitationID {
			continue
		}
		uuid, err := gocql.ParseUUID(n.ID)
		if err != nil {
			return fmt.Errorf("invalid notification id: %w", err)
		}
		query := `DELETE FROM notifications WHERE user_id = ? AND created_at = ? AND id = ?`
		if err := nr.session.Query(query, userID, n.CreatedAt, uuid).Exec(); err != nil {
			return fmt.Errorf("failed to delete notification: %w", err)
		}
	}
	return nil
}

func (nr *NotificationRepo) MarkRead(userID, notificationID string) error {
	notification, err := nr.findInPartition(userID, notificationID)
	if err != nil {
		return err
	}

	uuid, err := gocql.ParseUUID(notification.ID)
	if err != nil {
		return fmt.Errorf("invalid notification id: %w", err)
	}

	query := `UPDATE notifications SET is_read = true WHERE user_id = ? AND created_at = ? AND id = ?`
	if err := nr.session.Query(query, userID, notification.CreatedAt, uuid).Exec(); err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}
	return nil
}

var ErrNotificationNotFound = errors.New("notification not found")

func (nr *NotificationRepo) findInPartition(userID, notificationID string) (models.Notification, error) {
	notifications, err := nr.ListByUser(userID)
	if err != nil {
		return models.Notification{}, err
	}
	for _, n := range notifications {
		if n.ID == notificationID {
			return n, nil
		}
	}
	return models.Notification{}, ErrNotificationNotFound
}
