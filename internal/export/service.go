package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/storyboard-backend/pkg/db/models"
	"github.com/angelmondragon/storyboard-backend/pkg/docstore"
	"github.com/angelmondragon/storyboard-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storyboard-backend/pkg/errors"
	"github.com/angelmondragon/storyboard-backend/pkg/logger"
	"github.com/angelmondragon/storyboard-backend/pkg/metrics"
)

// Request is the export body. An absent format means images; an explicit
// empty string is rejected like any other unknown value.
type Request struct {
	ProjectID string  `json:"project_id" validate:"required"`
	Format    *string `json:"format,omitempty"`
}

// invalidFormatLabel stands in for every unparseable format in metrics.
const invalidFormatLabel = "invalid"

// Service fetches a project and renders it.
type Service interface {
	Export(ctx context.Context, req Request) (Artifact, error)
}

type ServiceParams struct {
	Projects docstore.Store[models.Project]
	Renderer Renderer
	Metrics  *metrics.ExportMetrics
	Logger   *logger.Logger
}

type service struct {
	projects docstore.Store[models.Project]
	renderer Renderer
	metrics  *metrics.ExportMetrics
	logg     *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Projects == nil {
		return nil, fmt.Errorf("project store is required")
	}
	r := params.Renderer
	if r == nil {
		r = NewRenderer()
	}
	return &service{
		projects: params.Projects,
		renderer: r,
		metrics:  params.Metrics,
		logg:     params.Logger,
	}, nil
}

// Export looks the project up before parsing the format, so a missing project
// reports NotFound whatever format was asked for.
func (s *service) Export(ctx context.Context, req Request) (Artifact, error) {
	rawFormat := string(enums.ExportFormatImages)
	if req.Format != nil {
		rawFormat = *req.Format
	}
	// Parsed up front so the metric label is always a known format, but the
	// error is only reported after the lookup.
	format, formatErr := enums.ParseExportFormat(rawFormat)
	label := format.String()
	if formatErr != nil {
		label = invalidFormatLabel
	}

	project, err := s.projects.GetOne(ctx, docstore.ByID(strings.TrimSpace(req.ProjectID)))
	if err != nil {
		s.metrics.IncRequest(label, metrics.OutcomeError)
		return Artifact{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "get project")
	}
	if project == nil {
		s.metrics.IncRequest(label, metrics.OutcomeNotFound)
		return Artifact{}, pkgerrors.New(pkgerrors.CodeNotFound, "project not found")
	}

	if formatErr != nil {
		s.metrics.IncRequest(label, metrics.OutcomeInvalid)
		return Artifact{}, pkgerrors.Wrap(pkgerrors.CodeValidation, formatErr, "invalid format").
			WithDetails(map[string]any{"format": rawFormat})
	}

	start := time.Now()
	artifact, err := Render(s.renderer, format, project.Slides)
	s.metrics.ObserveRender(format.String(), time.Since(start))
	if err != nil {
		s.metrics.IncRequest(format.String(), outcomeFor(err))
		return Artifact{}, err
	}
	s.metrics.IncRequest(format.String(), metrics.OutcomeSuccess)

	if s.logg != nil {
		logCtx := s.logg.WithProjectID(ctx, project.ID)
		logCtx = s.logg.WithFields(logCtx, map[string]any{
			"format": format.String(),
			"slides": len(project.Slides),
			"bytes":  len(artifact.Data),
		})
		s.logg.Info(logCtx, "export.rendered")
	}
	return artifact, nil
}

func outcomeFor(err error) string {
	switch {
	case pkgerrors.IsCode(err, pkgerrors.CodeNotImplemented):
		return metrics.OutcomeNotImplemented
	case pkgerrors.IsCode(err, pkgerrors.CodeValidation):
		return metrics.OutcomeInvalid
	}
	return metrics.OutcomeError
}
