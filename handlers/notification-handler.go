package handlers

import (
	"net/http"

	"ram-planner/backend/middleware"
	"ram-planner/backend/services"

	"github.com/gorilla/mux"
)

type NotificationHandler struct {
	NotificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{NotificationService: notificationService}
}

// List returns the caller's notifications, newest first.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	notifications, err := h.NotificationService.ListForUser(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, notifications)
}

func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	notificationID := mux.Vars(r)["notificationId"]

	if err := h.NotificationService.Delete(r.Context(), user.ID, notificationID); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Notification deleted")
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	notificationID := mux.Vars(r)["notificationId"]

	if err := h.NotificationService.MarkRead(r.Context(), user.ID, notificationID); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Notification marked as read")
}
