package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"ecobin-backend/internal/models"
	"ecobin-backend/internal/services"
	"ecobin-backend/pkg/utils"
)

// DefaultActivityLimit caps GET /api/activities when no limit is given
const DefaultActivityLimit = 50

// ListActivities handles GET /api/activities
func ListActivities(svc *services.ActivityService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		limit, err := utils.QueryLimit(r, "limit", DefaultActivityLimit)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		offset, err := utils.QueryInt(r, "offset", 0)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		filters := models.ActivityFilters{
			Search:   q.Get("search"),
			Type:     q.Get("type"),
			Status:   q.Get("status"),
			Priority: q.Get("priority"),
			Limit:    limit,
			Offset:   offset,
		}

		activities, err := svc.List(r.Context(), filters)
		if err != nil {
			respondError(w, err, "Activity not found", "Failed to fetch activities")
			return
		}
		utils.JSON(w, http.StatusOK, activities)
	}
}

// GetActivityStats handles GET /api/activities/stats/overview
func GetActivityStats(svc *services.ActivityService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Stats(r.Context())
		if err != nil {
			respondError(w, err, "Activity not found", "Failed to fetch statistics")
			return
		}
		utils.JSON(w, http.StatusOK, stats)
	}
}

// GetActivity handles GET /api/activities/{id}
func GetActivity(svc *services.ActivityService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		activity, err := svc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondError(w, err, "Activity not found", "Failed to fetch activity")
			return
		}
		utils.JSON(w, http.StatusOK, activity)
	}
}

// CreateActivity handles POST /api/activities
func CreateActivity(svc *services.ActivityService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.ActivityRequest
		if err := utils.DecodeJSON(w, r, &req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		activity, err := svc.Create(r.Context(), req)
		if err != nil {
			respondError(w, err, "Activity not found", "Failed to create activity")
			return
		}
		utils.JSON(w, http.StatusCreated, activity)
	}
}

// UpdateActivity handles PUT /api/activities/{id}
func UpdateActivity(svc *services.ActivityService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.ActivityRequest
		if err := utils.DecodeJSON(w, r, &req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		activity, err := svc.Update(r.Context(), chi.URLParam(r, "id"), req)
		if err != nil {
			respondError(w, err, "Activity not found", "Failed to update activity")
			return
		}
		utils.JSON(w, http.StatusOK, activity)
	}
}

// DeleteActivity handles DELETE /api/activities/{id}
func DeleteActivity(svc *services.ActivityService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := svc.Delete(r.Context(), id); err != nil {
			respondError(w, err, "Activity not found", "Failed to delete activity")
			return
		}
		utils.JSON(w, http.StatusOK, services.ActivityDeletedAck(id))
	}
}
