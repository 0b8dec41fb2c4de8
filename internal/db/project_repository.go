package db

import (
	"context"
	"fmt"

	"portal-backend-go/internal/models"
	"portal-backend-go/internal/timestamp"
)

type projectRepository struct {
	store Store
}

// NewProjectRepository creates a ProjectRepository.
func NewProjectRepository(store Store) ProjectRepository {
	return &projectRepository{store: store}
}

func decodeProject(doc *Doc) *models.Project {
	m := timestamp.NormalizeFields(doc.Data)
	p := &models.Project{
		ID:          doc.ID,
		ProjectName: getString(m, "project_name"),
		Status:      getString(m, "status"),
		StartDate:   getTime(m, "start_date"),
		EndDate:     getTime(m, "end_date"),
		Description: getString(m, "description"),
		CreatedAt:   getTime(m, "createdAt"),
		UpdatedAt:   getTime(m, "updatedAt"),
	}
	if b, ok := getFloat(m, "budget"); ok {
		p.Budget = &b
	}
	return p
}

func projectRecord(patch models.ProjectPatch) record {
	r := record{}
	r.str("project_name", patch.ProjectName)
	r.str("status", patch.Status)
	r.time("start_date", patch.StartDate)
	r.time("end_date", patch.EndDate)
	r.float("budget", patch.Budget)
	r.str("description", patch.Description)
	return r
}

func (r *projectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	p, err := getOne(ctx, r.store, ProjectsCollection, id, decodeProject)
	if err != nil {
		return nil, fmt.Errorf("failed to get project with ID '%s': %w", id, err)
	}
	return p, nil
}

func (r *projectRepository) GetAll(ctx context.Context) ([]*models.Project, error) {
	projects, err := findAll(ctx, r.store, ProjectsCollection, newestFirst, decodeProject)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

func (r *projectRepository) GetForOwner(ctx context.Context, userID string) ([]*models.Project, error) {
	projects, err := getOwned(ctx, r.store, ProjectsCollection, userID, models.OwnedProjects, decodeProject)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects of user '%s': %w", userID, err)
	}
	return projects, nil
}

func (r *projectRepository) Create(ctx context.Context, patch models.ProjectPatch) (string, error) {
	id, err := r.store.Add(ctx, ProjectsCollection, projectRecord(patch).stampCreated())
	if err != nil {
		return "", fmt.Errorf("failed to create project: %w", err)
	}
	return id, nil
}

func (r *projectRepository) Update(ctx context.Context, id string, patch models.ProjectPatch) error {
	if err := r.store.Update(ctx, ProjectsCollection, id, projectRecord(patch).stampUpdated()); err != nil {
		return fmt.Errorf("failed to update project with ID '%s': %w", id, err)
	}
	return nil
}

func (r *projectRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, ProjectsCollection, id); err != nil {
		return fmt.Errorf("failed to delete project with ID '%s': %w", id, err)
	}
	return nil
}
