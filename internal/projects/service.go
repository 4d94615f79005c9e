package projects

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/storyboard-backend/pkg/db/models"
	"github.com/angelmondragon/storyboard-backend/pkg/docstore"
	pkgerrors "github.com/angelmondragon/storyboard-backend/pkg/errors"
)

const notFoundMessage = "project not found"

// Service manages storyboard projects.
type Service interface {
	Create(ctx context.Context, actorID string, in ProjectInput) (*models.Project, error)
	List(ctx context.Context, ownerID string) ([]models.Project, error)
	Get(ctx context.Context, id string) (*models.Project, error)
	Update(ctx context.Context, id, actorID string, in ProjectInput) (*models.Project, error)
	Delete(ctx context.Context, id string) (DeleteResult, error)
}

type ServiceParams struct {
	Projects docstore.Store[models.Project]
	Clock    func() time.Time
}

type service struct {
	projects docstore.Store[models.Project]
	now      func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Projects == nil {
		return nil, fmt.Errorf("project store is required")
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	return &service{projects: params.Projects, now: clock}, nil
}

func (s *service) Create(ctx context.Context, actorID string, in ProjectInput) (*models.Project, error) {
	owner, err := resolveOwner(in.OwnerID, actorID)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}

	now := s.timestamp()
	project, err := s.projects.Create(ctx, &models.Project{
		OwnerID:       owner,
		Title:         title,
		Date:          in.Date,
		Location:      in.Location,
		Platform:      in.Platform,
		Mood:          in.Mood,
		ThemeID:       in.ThemeID,
		Slides:        slidesOf(in.Slides),
		Collaborators: collaboratorsOf(in.Collaborators),
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create project")
	}
	return project, nil
}

func (s *service) List(ctx context.Context, ownerID string) ([]models.Project, error) {
	filter := docstore.Filter{}
	if owner := strings.TrimSpace(ownerID); owner != "" {
		filter[models.FieldOwnerID] = owner
	}
	projects, err := s.projects.List(ctx, filter, docstore.DefaultLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list projects")
	}
	return projects, nil
}

func (s *service) Get(ctx context.Context, id string) (*models.Project, error) {
	project, err := s.projects.GetOne(ctx, docstore.ByID(id))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "get project")
	}
	if project == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
	}
	return project, nil
}

// Update replaces every editable field. created_at is left untouched.
func (s *service) Update(ctx context.Context, id, actorID string, in ProjectInput) (*models.Project, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}

	patch := docstore.Patch{
		models.FieldTitle:         title,
		models.FieldDate:          nullable(in.Date),
		models.FieldLocation:      nullable(in.Location),
		models.FieldPlatform:      nullable(in.Platform),
		models.FieldMood:          nullable(in.Mood),
		models.FieldThemeID:       nullable(in.ThemeID),
		models.FieldSlides:        slidesOf(in.Slides),
		models.FieldCollaborators: collaboratorsOf(in.Collaborators),
		models.FieldUpdatedAt:     s.timestamp(),
	}
	if owner := strings.TrimSpace(in.OwnerID); owner != "" {
		patch[models.FieldOwnerID] = owner
	}

	project, err := s.projects.Update(ctx, docstore.ByID(id), patch)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update project")
	}
	if project == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
	}
	return project, nil
}

func (s *service) Delete(ctx context.Context, id string) (DeleteResult, error) {
	ok, err := s.projects.Delete(ctx, docstore.ByID(id))
	if err != nil {
		return DeleteResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete project")
	}
	return DeleteResult{Success: ok}, nil
}

func (s *service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func resolveOwner(bodyOwner, actorID string) (string, error) {
	if owner := strings.TrimSpace(bodyOwner); owner != "" {
		return owner, nil
	}
	if actor := strings.TrimSpace(actorID); actor != "" {
		return actor, nil
	}
	return "", pkgerrors.New(pkgerrors.CodeValidation, "owner_id is required")
}

func slidesOf(in []models.Slide) models.Slides {
	out := make(models.Slides, len(in))
	copy(out, in)
	return out
}

func collaboratorsOf(in []string) models.StringList {
	out := make(models.StringList, 0, len(in))
	for _, c := range in {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// nullable unwraps optional strings so stores write NULL rather than a typed
// nil pointer.
func nullable(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}
