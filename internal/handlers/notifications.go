package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ecobin-backend/internal/database"
	"ecobin-backend/internal/models"
	"ecobin-backend/internal/services"
	"ecobin-backend/pkg/utils"
)

const notificationNotFound = "Notification not found"

// ListNotifications handles GET /api/notifications
func ListNotifications(svc *services.NotificationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := utils.QueryLimit(r, "limit", database.DefaultNotificationLimit)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		offset, err := utils.QueryInt(r, "offset", 0)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		filters := models.NotificationFilters{Limit: limit, Offset: offset}
		if raw := r.URL.Query().Get("read_status"); raw != "" {
			read, err := strconv.ParseBool(raw)
			if err != nil {
				utils.Error(w, http.StatusBadRequest, "read_status must be true or false")
				return
			}
			filters.ReadStatus = &read
		}

		utils.JSON(w, http.StatusOK, svc.List(r.Context(), filters))
	}
}

// GetUnreadCount handles GET /api/notifications/count/unread
func GetUnreadCount(svc *services.NotificationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.JSON(w, http.StatusOK, map[string]int{"count": svc.UnreadCount(r.Context())})
	}
}

// GetNotification handles GET /api/notifications/{id}
func GetNotification(svc *services.NotificationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := svc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondError(w, err, notificationNotFound, "Failed to fetch notification")
			return
		}
		utils.JSON(w, http.StatusOK, n)
	}
}

// CreateNotification handles POST /api/notifications
func CreateNotification(svc *services.NotificationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateNotificationRequest
		if err := utils.DecodeJSON(w, r, &req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		n, err := svc.Create(r.Context(), req)
		if err != nil {
			respondError(w, err, notificationNotFound, "Failed to create notification")
			return
		}
		utils.JSON(w, http.StatusCreated, n)
	}
}

// MarkNotificationRead handles PUT /api/notifications/{id}/read
func MarkNotificationRead(svc *services.NotificationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := svc.MarkRead(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondError(w, err, notificationNotFound, "Failed to update notification")
			return
		}
		utils.JSON(w, http.StatusOK, services.NotificationReadAck(n.ID))
	}
}

// MarkAllNotificationsRead handles PUT /api/notifications/mark-all-read
func MarkAllNotificationsRead(svc *services.NotificationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		updated, err := svc.MarkAllRead(r.Context())
		if err != nil {
			respondError(w, err, notificationNotFound, "Failed to update notifications")
			return
		}
		utils.JSON(w, http.StatusOK, services.AllNotificationsReadAck(updated))
	}
}

// DeleteNotification handles DELETE /api/notifications/{id}
func DeleteNotification(svc *services.NotificationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := svc.Delete(r.Context(), id); err != nil {
			respondError(w, err, notificationNotFound, "Failed to delete notification")
			return
		}
		utils.JSON(w, http.StatusOK, services.NotificationDeletedAck(id))
	}
}
