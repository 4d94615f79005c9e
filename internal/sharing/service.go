package sharing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/storyboard-backend/pkg/config"
	"github.com/angelmondragon/storyboard-backend/pkg/db/models"
	"github.com/angelmondragon/storyboard-backend/pkg/docstore"
	"github.com/angelmondragon/storyboard-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storyboard-backend/pkg/errors"
	"github.com/angelmondragon/storyboard-backend/pkg/security"
)

const (
	tokenBytes             = 16
	linkNotFoundMessage    = "link not found"
	projectNotFoundMessage = "project not found"
	defaultTTL             = 14 * 24 * time.Hour
)

// Service issues and resolves tokenized share links.
type Service interface {
	Create(ctx context.Context, projectID, role string) (*models.ShareLink, error)
	Resolve(ctx context.Context, token string) (*models.Project, error)
}

type ServiceParams struct {
	Links    docstore.Store[models.ShareLink]
	Projects docstore.Store[models.Project]
	Config   config.ShareConfig
	Clock    func() time.Time
}

type service struct {
	links         docstore.Store[models.ShareLink]
	projects      docstore.Store[models.Project]
	ttl           time.Duration
	enforceExpiry bool
	now           func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Links == nil {
		return nil, fmt.Errorf("share link store is required")
	}
	if params.Projects == nil {
		return nil, fmt.Errorf("project store is required")
	}
	ttl := params.Config.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	return &service{
		links:         params.Links,
		projects:      params.Projects,
		ttl:           ttl,
		enforceExpiry: params.Config.EnforceExpiry,
		now:           clock,
	}, nil
}

// Create does not check that the project exists; resolution reports a
// missing project instead.
func (s *service) Create(ctx context.Context, projectID, rawRole string) (*models.ShareLink, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "project_id is required")
	}
	role, err := enums.ParseShareRole(rawRole)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role").
			WithDetails(map[string]any{"role": rawRole})
	}

	token, err := security.RandomToken(tokenBytes)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate share token")
	}

	now := s.now().UTC().Truncate(time.Millisecond)
	expires := now.Add(s.ttl)
	link, err := s.links.Create(ctx, &models.ShareLink{
		ProjectID: projectID,
		Token:     token,
		Role:      role,
		CreatedAt: now,
		ExpiresAt: &expires,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create share link")
	}
	return link, nil
}

func (s *service) Resolve(ctx context.Context, token string) (*models.Project, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, linkNotFoundMessage)
	}

	link, err := s.links.GetOne(ctx, docstore.Filter{models.FieldToken: token})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "get share link")
	}
	if link == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, linkNotFoundMessage)
	}
	if s.enforceExpiry && link.Expired(s.now()) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, linkNotFoundMessage)
	}

	project, err := s.projects.GetOne(ctx, docstore.ByID(link.ProjectID))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "get shared project")
	}
	if project == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, projectNotFoundMessage)
	}
	return project, nil
}
