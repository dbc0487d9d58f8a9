package services

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"ram-planner/backend/logging"
	"ram-planner/backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TaskService struct {
	TasksCollection    *mongo.Collection
	ProjectsCollection *mongo.Collection
}

func NewTaskService(tasks, projects *mongo.Collection) *TaskService {
	return &TaskService{
		TasksCollection:    tasks,
		ProjectsCollection: projects,
	}
}

// TaskUpdate carries the partial update for a task. Nil fields are left
// untouched; Approvers and Informed replace the stored sets when present.
type TaskUpdate struct {
	Name        *string            `json:"name"`
	Status      *models.TaskStatus `json:"status"`
	Priority    *int               `json:"priority"`
	Description *string            `json:"description"`
	AssigneeID  *string            `json:"assigneeId"`
	Approvers   []string           `json:"approvers"`
	Informed    []string           `json:"informed"`
}

// validate checks the field constraints a patch must meet before any
// storage is touched. The description limit counts characters, not bytes,
// like the username and password rules.
func (p TaskUpdate) validate() error {
	if p.Status != nil && !models.ValidTaskStatus(*p.Status) {
		return fmt.Errorf("%w: unknown task status %q", ErrValidation, *p.Status)
	}
	if p.Priority != nil && (*p.Priority < models.MinTaskPriority || *p.Priority > models.MaxTaskPriority) {
		return fmt.Errorf("%w: priority must be between %d and %d", ErrValidation, models.MinTaskPriority, models.MaxTaskPriority)
	}
	if p.Description != nil && utf8.RuneCountInString(*p.Description) > models.MaxTaskDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrValidation, models.MaxTaskDescriptionLength)
	}
	return nil
}

func (s *TaskService) List(ctx context.Context, projectID string) ([]models.Task, error) {
	project, err := s.findProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.M{"_id": 1})
	cursor, err := s.TasksCollection.Find(ctx, bson.M{"project_id": project.ID}, opts)
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

// Create starts a task owned by its creator; every other effective member
// of the project is informed from the start.
func (s *TaskService) Create(ctx context.Context, projectID, name string, creator models.User) (models.Task, error) {
	if name == "" {
		return models.Task{}, fmt.Errorf("%w: task name is required", ErrValidation)
	}

	project, err := s.findProject(ctx, projectID)
	if err != nil {
		return models.Task{}, err
	}

	informed := []models.Member{}
	for _, member := range models.EffectiveMembers(project) {
		if member.ID != creator.ID {
			informed = append(informed, member)
		}
	}

	task := models.Task{
		ID:         primitive.NewObjectID(),
		ProjectID:  project.ID,
		Name:       name,
		Status:     models.StatusToDo,
		Priority:   3,
		Assignee:   creator.AsMember(),
		Approvers:  []models.Member{},
		Informed:   informed,
		LastChange: time.Now(),
	}

	if _, err := s.TasksCollection.InsertOne(ctx, task); err != nil {
		return models.Task{}, fmt.Errorf("failed to create task: %w", err)
	}

	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Task %q created in project %s by %s", name, projectID, creator.Username)
	return task, nil
}

// Get returns the task only when it belongs to the stated project; a
// cross-project id is indistinguishable from a missing one.
func (s *TaskService) Get(ctx context.Context, projectID, taskID string) (models.Task, error) {
	return s.findScoped(ctx, projectID, taskID)
}

func (s *TaskService) Update(ctx context.Context, projectID, taskID string, patch TaskUpdate) (models.Task, error) {
	if err := patch.validate(); err != nil {
		return models.Task{}, err
	}

	task, err := s.findScoped(ctx, projectID, taskID)
	if err != nil {
		return models.Task{}, err
	}

	set := bson.M{"last_change": time.Now()}

	if patch.Name != nil && *patch.Name != "" {
		set["name"] = *patch.Name
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.Priority != nil {
		set["priority"] = *patch.Priority
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}

	if patch.AssigneeID != nil {
		assignee, err := s.resolveMember(ctx, task.ProjectID, *patch.AssigneeID)
		if err != nil {
			return models.Task{}, err
		}
		set["assignee"] = assignee
	}
	if patch.Approvers != nil {
		approvers, err := s.resolveMembers(ctx, task.ProjectID, patch.Approvers)
		if err != nil {
			return models.Task{}, err
		}
		set["approvers"] = approvers
	}
	if patch.Informed != nil {
		informed, err := s.resolveMembers(ctx, task.ProjectID, patch.Informed)
		if err != nil {
			return models.Task{}, err
		}
		set["informed"] = informed
	}

	if _, err := s.TasksCollection.UpdateOne(ctx, bson.M{"_id": task.ID}, bson.M{"$set": set}); err != nil {
		return models.Task{}, fmt.Errorf("failed to update task: %w", err)
	}

	return s.findScoped(ctx, projectID, taskID)
}

func (s *TaskService) Delete(ctx context.Context, projectID, taskID string) error {
	task, err := s.findScoped(ctx, projectID, taskID)
	if err != nil {
		return err
	}

	if _, err := s.TasksCollection.DeleteOne(ctx, bson.M{"_id": task.ID}); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	logging.Logger.Infof("Event ID: TASK_DELETED, Description: Task %s deleted from project %s", taskID, projectID)
	return nil
}

func (s *TaskService) findProject(ctx context.Context, projectID string) (models.Project, error) {
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

func (s *TaskService) findScoped(ctx context.Context, projectID, taskID string) (models.Task, error) {
	project, err := s.findProject(ctx, projectID)
	if err != nil {
		return models.Task{}, err
	}

	taskObjectID, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return models.Task{}, fmt.Errorf("%w: invalid task id", ErrNotFound)
	}

	var task models.Task
	if err := s.TasksCollection.FindOne(ctx, bson.M{"_id": taskObjectID}).Decode(&task); err != nil {
		return models.Task{}, fmt.Errorf("%w: task", ErrNotFound)
	}
	if task.ProjectID != project.ID {
		return models.Task{}, fmt.Errorf("%w: task", ErrNotFound)
	}
	return task, nil
}

// resolveMember maps a user id onto the project's effective member list,
// so tasks can only reference people who are actually on the project.
func (s *TaskService) resolveMember(ctx context.Context, projectID primitive.ObjectID, userID string) (models.Member, error) {
	var project models.Project
	if err := s.ProjectsCollection.FindOne(ctx, bson.M{"_id": projectID}).Decode(&project); err != nil {
		return models.Member{}, fmt.Errorf("%w: project", ErrNotFound)
	}

	objectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return models.Member{}, fmt.Errorf("%w: invalid user id", ErrNotFound)
	}

	for _, member := range models.EffectiveMembers(project) {
		if member.ID == objectID {
			return member, nil
		}
	}
	return models.Member{}, fmt.Errorf("%w: user %s is not a project member", ErrValidation, userID)
}

func (s *TaskService) resolveMembers(ctx context.Context, projectID primitive.ObjectID, userIDs []string) ([]models.Member, error) {
	members := []models.Member{}
	for _, id := range userIDs {
		member, err := s.resolveMember(ctx, projectID, id)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, nil
}
