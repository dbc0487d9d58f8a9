package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"ram-planner/backend/models"
	"ram-planner/backend/services"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestWriteErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", fmt.Errorf("%w: bad name", services.ErrValidation), http.StatusBadRequest},
		{"version conflict", fmt.Errorf("%w: 1.0.0", services.ErrVersionConflict), http.StatusBadRequest},
		{"unauthorized", services.ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", fmt.Errorf("%w: not the manager", services.ErrForbidden), http.StatusForbidden},
		{"not found", fmt.Errorf("%w: project", services.ErrNotFound), http.StatusNotFound},
		{"conflict", fmt.Errorf("%w: username taken", services.ErrConflict), http.StatusConflict},
		{"unknown", fmt.Errorf("database exploded"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestWriteErrorHidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, fmt.Errorf("dial tcp 10.0.0.5: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Internal server error"}`, rec.Body.String())
}

func TestProjectViewMergesManager(t *testing.T) {
	manager := models.Member{ID: primitive.NewObjectID(), Username: "manager"}
	alice := models.Member{ID: primitive.NewObjectID(), Username: "alice"}

	project := models.Project{
		ManagedBy: manager,
		Members:   []models.Member{alice},
	}

	view := projectView(project)
	assert.Equal(t, []models.Member{manager, alice}, view.Members)
	// The original is left untouched.
	assert.Equal(t, []models.Member{alice}, project.Members)
}
