package services

import (
	"context"
	"fmt"
	"time"

	"ram-planner/backend/logging"
	"ram-planner/backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Notifier is the outbox the project service writes membership events to.
// Implemented by NotificationService; failures here must not fail the
// membership change itself.
type Notifier interface {
	Notify(ctx context.Context, userID primitive.ObjectID, username, message, invitationID string) error
	RemoveForInvitation(ctx context.Context, userID primitive.ObjectID, invitationID string) error
}

type ProjectService struct {
	ProjectsCollection    *mongo.Collection
	TasksCollection       *mongo.Collection
	UsersCollection       *mongo.Collection
	InvitationsCollection *mongo.Collection
	Notifier              Notifier
}

func NewProjectService(projects, tasks, users, invitations *mongo.Collection, notifier Notifier) *ProjectService {
	return &ProjectService{
		ProjectsCollection:    projects,
		TasksCollection:       tasks,
		UsersCollection:       users,
		InvitationsCollection: invitations,
		Notifier:              notifier,
	}
}

// ProjectUpdate carries the partial update for a project. Nil fields are
// left untouched.
type ProjectUpdate struct {
	Name            *string                   `json:"name"`
	Description     *string                   `json:"description"`
	CaseStudy       *models.VersionedDocument `json:"caseStudy"`
	ProjectStatutes *models.Statutes          `json:"projectStatutes"`
	RAMMatrix       [][]string                `json:"ramMatrix"`
	ManagedByID     *string                   `json:"managedById"`
}

type InvitationDetails struct {
	models.ProjectInvitation
	Project models.Project `json:"project"`
	User    models.Member  `json:"user"`
}

func (s *ProjectService) Create(ctx context.Context, name, description string, manager models.Member) (models.Project, error) {
	if name == "" {
		return models.Project{}, fmt.Errorf("%w: project name is required", ErrValidation)
	}

	project := models.Project{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Description: description,
		ManagedBy:   manager,
		Members:     []models.Member{},
		CreatedAt:   time.Now(),
	}

	if _, err := s.ProjectsCollection.InsertOne(ctx, project); err != nil {
		return models.Project{}, fmt.Errorf("failed to create project: %w", err)
	}

	logging.Logger.Infof("Event ID: PROJECT_CREATED, Description: Project %q created by %s", name, manager.Username)
	return project, nil
}

// GetByID returns the project with its responsibility grid. When no grid
// has been stored yet it is derived from the project's tasks on the fly.
func (s *ProjectService) GetByID(ctx context.Context, projectID string) (models.Project, error) {
	project, err := s.findProject(ctx, projectID)
	if err != nil {
		return models.Project{}, err
	}

	if project.RAMMatrix == nil {
		tasks, err := s.tasksInOrder(ctx, project.ID)
		if err != nil {
			return models.Project{}, err
		}
		if len(tasks) > 0 {
			project.RAMMatrix = BuildRAMMatrix(tasks, models.EffectiveMembers(project))
		}
	}
	return project, nil
}

func (s *ProjectService) findProject(ctx context.Context, projectID string) (models.Project, error) {
	objectID, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return models.Project{}, fmt.Errorf("%w: invalid project id", ErrNotFound)
	}

	var project models.Project
	if err := s.ProjectsCollection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&project); err != nil {
		return models.Project{}, fmt.Errorf("%w: project", ErrNotFound)
	}
	return project, nil
}

// ListForUser returns every project the user manages or belongs to.
func (s *ProjectService) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Project, error) {
	filter := bson.M{"$or": []bson.M{
		{"managed_by._id": userID},
		{"members._id": userID},
	}}

	cursor, err := s.ProjectsCollection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch projects: %w", err)
	}
	defer cursor.Close(ctx)

	projects := []models.Project{}
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("failed to decode projects: %w", err)
	}
	return projects, nil
}

// Update applies a partial project update. Case study and statutes carry
// a dotted-triple version that must strictly increase; leadership transfer
// is reserved for the current manager.
func (s *ProjectService) Update(ctx context.Context, projectID string, requester models.User, patch ProjectUpdate) (models.Project, error) {
	project, err := s.findProject(ctx, projectID)
	if err != nil {
		return models.Project{}, err
	}

	set := bson.M{}
	now := time.Now()

	if patch.Name != nil && *patch.Name != "" {
		set["name"] = *patch.Name
	}
	if patch.Description != nil && *patch.Description != "" {
		set["description"] = *patch.Description
	}

	if patch.CaseStudy != nil {
		stored := ""
		if project.CaseStudy != nil {
			stored = project.CaseStudy.Version
		}
		if err := checkVersionBump(stored, patch.CaseStudy.Version); err != nil {
			return models.Project{}, err
		}
		patch.CaseStudy.LastModified = now
		patch.CaseStudy.ModifiedBy = requester.Username
		set["case_study"] = patch.CaseStudy
	}

	if patch.ProjectStatutes != nil {
		stored := ""
		if project.ProjectStatutes != nil {
			stored = project.ProjectStatutes.Version
		}
		if err := checkVersionBump(stored, patch.ProjectStatutes.Version); err != nil {
			return models.Project{}, err
		}
		patch.ProjectStatutes.LastModified = now
		patch.ProjectStatutes.ModifiedBy = requester.Username
		set["project_statutes"] = patch.ProjectStatutes
	}

	if patch.ManagedByID != nil {
		if project.ManagedBy.ID != requester.ID {
			return models.Project{}, fmt.Errorf("%w: only the manager can transfer leadership", ErrForbidden)
		}
		newManagerID, err := primitive.ObjectIDFromHex(*patch.ManagedByID)
		if err != nil {
			return models.Project{}, fmt.Errorf("%w: invalid user id", ErrNotFound)
		}
		var newManager models.User
		if err := s.UsersCollection.FindOne(ctx, bson.M{"_id": newManagerID}).Decode(&newManager); err != nil {
			return models.Project{}, fmt.Errorf("%w: user", ErrNotFound)
		}

		if newManager.ID != project.ManagedBy.ID {
			// The old manager keeps access as a regular member; the new
			// manager must not stay in the stored member list.
			members := []models.Member{project.ManagedBy}
			for _, m := range project.Members {
				if m.ID != newManager.ID && m.ID != project.ManagedBy.ID {
					members = append(members, m)
				}
			}
			set["managed_by"] = newManager.AsMember()
			set["members"] = members
		}
	}

	if patch.RAMMatrix != nil {
		if err := s.applyRAMMatrix(ctx, project, patch.RAMMatrix); err != nil {
			return models.Project{}, err
		}
		set["ram_matrix"] = patch.RAMMatrix
	}

	if len(set) > 0 {
		if _, err := s.ProjectsCollection.UpdateOne(ctx, bson.M{"_id": project.ID}, bson.M{"$set": set}); err != nil {
			return models.Project{}, fmt.Errorf("failed to update project: %w", err)
		}
	}

	return s.GetByID(ctx, projectID)
}

// applyRAMMatrix pushes grid edits back onto the tasks. Rows follow task
// creation order, columns the effective member order clients see.
func (s *ProjectService) applyRAMMatrix(ctx context.Context, project models.Project, matrix [][]string) error {
	tasks, err := s.tasksInOrder(ctx, project.ID)
	if err != nil {
		return err
	}

	members := models.EffectiveMembers(project)
	updated := ApplyRAMMatrix(matrix, members, tasks)

	for _, task := range updated {
		update := bson.M{"$set": bson.M{
			"assignee":    task.Assignee,
			"approvers":   task.Approvers,
			"informed":    task.Informed,
			"last_change": time.Now(),
		}}
		if _, err := s.TasksCollection.UpdateOne(ctx, bson.M{"_id": task.ID}, update); err != nil {
			return fmt.Errorf("failed to sync task roles: %w", err)
		}
	}
	return nil
}

func (s *ProjectService) tasksInOrder(ctx context.Context, projectID primitive.ObjectID) ([]models.Task, error) {
	opts := options.Find().SetSort(bson.M{"_id": 1})
	cursor, err := s.TasksCollection.Find(ctx, bson.M{"project_id": projectID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tasks: %w", err)
	}
	defer cursor.Close(ctx)

	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return tasks, nil
}

// Delete removes the project together with its tasks and any pending
// invitations.
func (s *ProjectService) Delete(ctx context.Context, projectID string) error {
	project, err := s.findProject(ctx, projectID)
	if err != nil {
		return err
	}

	if _, err := s.TasksCollection.DeleteMany(ctx, bson.M{"project_id": project.ID}); err != nil {
		return fmt.Errorf("failed to delete project tasks: %w", err)
	}
	if _, err := s.InvitationsCollection.DeleteMany(ctx, bson.M{"project_id": project.ID}); err != nil {
		return fmt.Errorf("failed to delete project invitations: %w", err)
	}
	if _, err := s.ProjectsCollection.DeleteOne(ctx, bson.M{"_id": project.ID}); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	logging.Logger.Infof("Event ID: PROJECT_DELETED, Description: Project %s deleted", projectID)
	return nil
}

// InviteUsers resolves every username up front: one unknown name fails the
// whole batch and nothing is persisted. The inviter, existing members and
// users with a pending invitation are skipped.
func (s *ProjectService) InviteUsers(ctx context.Context, projectID string, inviter models.User, usernames []string) error {
	project, err := s.findProject(ctx, projectID)
	if err != nil {
		return err
	}

	invitees := []models.User{}
	for _, username := range usernames {
		var user models.User
		if err := s.UsersCollection.FindOne(ctx, bson.M{"username": username}).Decode(&user); err != nil {
			return fmt.Errorf("%w: user %q", ErrNotFound, username)
		}
		invitees = append(invitees, user)
	}

	members := models.EffectiveMembers(project)
	toInvite := []models.User{}
	for _, user := range invitees {
		if user.ID == inviter.ID || containsMember(members, user.ID) {
			continue
		}
		pending, err := s.hasPendingInvitation(ctx, project.ID, user.ID)
		if err != nil {
			return err
		}
		if !pending {
			toInvite = append(toInvite, user)
		}
	}

	for _, user := range toInvite {
		invitation := models.ProjectInvitation{
			ID:        primitive.NewObjectID(),
			ProjectID: project.ID,
			UserID:    user.ID,
			InvitedBy: inviter.ID,
			CreatedAt: time.Now(),
		}
		if _, err := s.InvitationsCollection.InsertOne(ctx, invitation); err != nil {
			return fmt.Errorf("failed to create invitation: %w", err)
		}

		message := fmt.Sprintf("%s invited you to join the project %q.", inviter.Username, project.Name)
		if err := s.Notifier.Notify(ctx, user.ID, user.Username, message, invitation.ID.Hex()); err != nil {
			logging.Logger.Errorf("Event ID: INVITE_NOTIFY_FAILED, Description: Failed to notify %s about invitation %s: %v", user.Username, invitation.ID.Hex(), err)
		}
	}

	logging.Logger.Infof("Event ID: USERS_INVITED, Description: %d invitation(s) created for project %s", len(toInvite), projectID)
	return nil
}

func (s *ProjectService) hasPendingInvitation(ctx context.Context, projectID, userID primitive.ObjectID) (bool, error) {
	err := s.InvitationsCollection.FindOne(ctx, bson.M{"project_id": projectID, "user_id": userID}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check pending invitations: %w", err)
	}
	return true, nil
}

func (s *ProjectService) GetInvitation(ctx context.Context, invitationID string) (InvitationDetails, error) {
	invitation, err := s.findInvitation(ctx, invitationID)
	if err != nil {
		return InvitationDetails{}, err
	}

	var project models.Project
	if err := s.ProjectsCollection.FindOne(ctx, bson.M{"_id": invitation.ProjectID}).Decode(&project); err != nil {
		return InvitationDetails{}, fmt.Errorf("%w: project", ErrNotFound)
	}

	var user models.User
	if err := s.UsersCollection.FindOne(ctx, bson.M{"_id": invitation.UserID}).Decode(&user); err != nil {
		return InvitationDetails{}, fmt.Errorf("%w: user", ErrNotFound)
	}

	return InvitationDetails{
		ProjectInvitation: invitation,
		Project:           project,
		User:              user.AsMember(),
	}, nil
}

// RespondToInvitation is terminal: accept adds the invitee and tells the
// manager, decline only cleans up. Either way the invitation row and its
// notifications go away, so a second response finds nothing.
func (s *ProjectService) RespondToInvitation(ctx context.Context, invitationID, response string) error {
	if response != models.InvitationAccept && response != models.InvitationDecline {
		return fmt.Errorf("%w: response must be %q or %q", ErrValidation, models.InvitationAccept, models.InvitationDecline)
	}

	invitation, err := s.findInvitation(ctx, invitationID)
	if err != nil {
		return err
	}

	var project models.Project
	if err := s.ProjectsCollection.FindOne(ctx, bson.M{"_id": invitation.ProjectID}).Decode(&project); err != nil {
		return fmt.Errorf("%w: project", ErrNotFound)
	}

	var invitee models.User
	if err := s.UsersCollection.FindOne(ctx, bson.M{"_id": invitation.UserID}).Decode(&invitee); err != nil {
		return fmt.Errorf("%w: user", ErrNotFound)
	}

	if response == models.InvitationAccept {
		if !containsMember(models.EffectiveMembers(project), invitee.ID) {
			update := bson.M{"$push": bson.M{"members": invitee.AsMember()}}
			if _, err := s.ProjectsCollection.UpdateOne(ctx, bson.M{"_id": project.ID}, update); err != nil {
				return fmt.Errorf("failed to add member: %w", err)
			}
		}

		message := fmt.Sprintf("%s has joined to the project %q.", invitee.Username, project.Name)
		if err := s.Notifier.Notify(ctx, project.ManagedBy.ID, project.ManagedBy.Username, message, ""); err != nil {
			logging.Logger.Errorf("Event ID: JOIN_NOTIFY_FAILED, Description: Failed to notify manager of project %s: %v", project.ID.Hex(), err)
		}
	}

	if _, err := s.InvitationsCollection.DeleteOne(ctx, bson.M{"_id": invitation.ID}); err != nil {
		return fmt.Errorf("failed to delete invitation: %w", err)
	}

	if err := s.Notifier.RemoveForInvitation(ctx, invitee.ID, invitation.ID.Hex()); err != nil {
		logging.Logger.Errorf("Event ID: INVITATION_CLEANUP_FAILED, Description: Failed to remove notifications for invitation %s: %v", invitation.ID.Hex(), err)
	}

	logging.Logger.Infof("Event ID: INVITATION_RESOLVED, Description: Invitation %s resolved (%s) by %s", invitationID, response, invitee.Username)
	return nil
}

func (s *ProjectService) findInvitation(ctx context.Context, invitationID string) (models.ProjectInvitation, error) {
	objectID, err := primitive.ObjectIDFromHex(invitationID)
	if err != nil {
		return models.ProjectInvitation{}, fmt.Errorf("%w: invalid invitation id", ErrNotFound)
	}

	var invitation models.ProjectInvitation
	if err := s.InvitationsCollection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&invitation); err != nil {
		return models.ProjectInvitation{}, fmt.Errorf("%w: invitation", ErrNotFound)
	}
	return invitation, nil
}

func checkVersionBump(stored, proposed string) error {
	next, err := models.ParseVersion(proposed)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	current := models.Version{}
	if stored != "" {
		current, err = models.ParseVersion(stored)
		if err != nil {
			return fmt.Errorf("stored version is corrupt: %w", err)
		}
	}

	if !next.After(current) {
		return fmt.Errorf("%w: version %s does not increase %s", ErrVersionConflict, proposed, current)
	}
	return nil
}
