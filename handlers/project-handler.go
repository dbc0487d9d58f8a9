package handlers

import (
	"encoding/json"
	"net/http"

	"ram-planner/backend/middleware"
	"ram-planner/backend/services"

	"github.com/gorilla/mux"
)

type ProjectHandler struct {
	ProjectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{ProjectService: projectService}
}

type createProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	project, err := h.ProjectService.Create(r.Context(), req.Name, req.Description, user.AsMember())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, projectView(project))
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	projects, err := h.ProjectService.ListForUser(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, projectViews(projects))
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	projectID := mux.Vars(r)["projectId"]

	project, err := h.ProjectService.GetByID(r.Context(), projectID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, projectView(project))
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	projectID := mux.Vars(r)["projectId"]

	var patch services.ProjectUpdate
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	project, err := h.ProjectService.Update(r.Context(), projectID, user, patch)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, projectView(project))
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	projectID := mux.Vars(r)["projectId"]

	if err := h.ProjectService.Delete(r.Context(), projectID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type inviteRequest struct {
	Usernames []string `json:"usernames"`
}

func (h *ProjectHandler) Invite(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	projectID := mux.Vars(r)["projectId"]

	var req inviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Usernames) == 0 {
		writeMessage(w, http.StatusBadRequest, "No usernames provided")
		return
	}

	if err := h.ProjectService.InviteUsers(r.Context(), projectID, user, req.Usernames); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Invitations and notifications sent")
}

func (h *ProjectHandler) GetInvitation(w http.ResponseWriter, r *http.Request) {
	invitationID := mux.Vars(r)["invitationId"]

	details, err := h.ProjectService.GetInvitation(r.Context(), invitationID)
	if err != nil {
		writeError(w, err)
		return
	}

	details.Project = projectView(details.Project)
	writeJSON(w, http.StatusOK, details)
}

type respondRequest struct {
	Response string `json:"response"`
}

func (h *ProjectHandler) RespondToInvitation(w http.ResponseWriter, r *http.Request) {
	invitationID := mux.Vars(r)["invitationId"]

	var req respondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.ProjectService.RespondToInvitation(r.Context(), invitationID, req.Response); err != nil {
		writeError(w, err)
		return
	}

	if req.Response == "accept" {
		writeMessage(w, http.StatusOK, "Invitation accepted")
		return
	}
	writeMessage(w, http.StatusOK, "Invitation declined")
}
