package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"ram-planner/backend/logging"
	"ram-planner/backend/models"
	"ram-planner/backend/services"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			logging.Logger.Errorf("Event ID: RESPONSE_ENCODE_FAILED, Description: Failed to encode response: %v", err)
		}
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeError translates service sentinels into HTTP statuses. Anything
// unrecognized is logged and answered with a generic 500 so internals
// never leak to clients.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrVersionConflict):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrUnauthorized):
		writeMessage(w, http.StatusUnauthorized, "Wrong username or password")
	case errors.Is(err, services.ErrForbidden):
		writeMessage(w, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrNotFound):
		writeMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrConflict):
		writeMessage(w, http.StatusConflict, err.Error())
	default:
		logging.Logger.Errorf("Event ID: INTERNAL_ERROR, Description: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}

// projectView presents a project with the manager merged into the member
// list, the shape clients and the RAM grid work against.
func projectView(p models.Project) models.Project {
	p.Members = models.EffectiveMembers(p)
	return p
}

func projectViews(projects []models.Project) []models.Project {
	views := make([]models.Project, len(projects))
	for i, p := range projects {
		views[i] = projectView(p)
	}
	return views
}
