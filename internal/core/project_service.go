package core

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"portal-backend-go/internal/db"
	"portal-backend-go/internal/models"
)

var projectStatuses = []string{
	models.ProjectStatusActive,
	models.ProjectStatusCompleted,
	models.ProjectStatusOnHold,
	models.ProjectStatusCancelled,
}

type projectService struct {
	projects db.ProjectRepository
	users    db.UserRepository
	logger   *zap.Logger
}

// NewProjectService creates a ProjectService.
func NewProjectService(projects db.ProjectRepository, users db.UserRepository, logger *zap.Logger) ProjectService {
	return &projectService{projects: projects, users: users, logger: logger}
}

func validateProject(patch models.ProjectPatch) error {
	if err := firstErr(
		notBlank("project_name", patch.ProjectName),
		oneOf("status", patch.Status, projectStatuses...),
	); err != nil {
		return err
	}
	if patch.Budget != nil && *patch.Budget < 0 {
		return invalidf("budget cannot be negative")
	}
	if patch.StartDate != nil && patch.EndDate != nil && patch.EndDate.Before(*patch.StartDate) {
		return invalidf("end_date cannot be before start_date")
	}
	return nil
}

func (s *projectService) List(ctx context.Context) ([]*models.Project, error) {
	return s.projects.GetAll(ctx)
}

func (s *projectService) ListForUser(ctx context.Context, userID string) ([]*models.Project, error) {
	return s.projects.GetForOwner(ctx, userID)
}

func (s *projectService) GetByID(ctx context.Context, id string) (*models.Project, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: '%s'", ErrProjectNotFound, id)
	}
	return p, nil
}

func (s *projectService) Create(ctx context.Context, patch models.ProjectPatch) (*models.Project, error) {
	if err := firstErr(required("project_name", patch.ProjectName), validateProject(patch)); err != nil {
		return nil, err
	}
	if patch.Status == nil {
		status := models.ProjectStatusActive
		patch.Status = &status
	}
	id, err := s.projects.Create(ctx, patch)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Project created", zap.String("projectID", id))
	return s.GetByID(ctx, id)
}

func (s *projectService) Update(ctx context.Context, id string, patch models.ProjectPatch) (*models.Project, error) {
	if err := validateProject(patch); err != nil {
		return nil, err
	}
	if err := s.projects.Update(ctx, id, patch); err != nil {
		return nil, notFound(err, ErrProjectNotFound, id)
	}
	return s.GetByID(ctx, id)
}

func (s *projectService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.projects.Delete(ctx, id)
}

func (s *projectService) Assign(ctx context.Context, id, userID string) error {
	return assign(ctx, s.users, models.OwnedProjects, id, userID)
}
