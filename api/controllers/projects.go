package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/storyboard-backend/api/middleware"
	"github.com/angelmondragon/storyboard-backend/api/responses"
	"github.com/angelmondragon/storyboard-backend/api/validators"
	"github.com/angelmondragon/storyboard-backend/internal/projects"
	pkgerrors "github.com/angelmondragon/storyboard-backend/pkg/errors"
	"github.com/angelmondragon/storyboard-backend/pkg/logger"
)

const projectIDParam = "projectID"

func projectServiceMissing(w http.ResponseWriter, r *http.Request, logg *logger.Logger) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "project service unavailable"))
}

func ProjectCreate(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			projectServiceMissing(w, r, logg)
			return
		}

		var body projects.ProjectInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		project, err := svc.Create(r.Context(), middleware.UserIDFromContext(r.Context()), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, project)
	}
}

// ProjectList honours an optional owner_id query filter.
func ProjectList(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			projectServiceMissing(w, r, logg)
			return
		}

		list, err := svc.List(r.Context(), r.URL.Query().Get("owner_id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func ProjectGet(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			projectServiceMissing(w, r, logg)
			return
		}

		project, err := svc.Get(r.Context(), chi.URLParam(r, projectIDParam))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, project)
	}
}

func ProjectUpdate(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			projectServiceMissing(w, r, logg)
			return
		}

		var body projects.ProjectInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		project, err := svc.Update(ctx, chi.URLParam(r, projectIDParam), middleware.UserIDFromContext(ctx), body)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, project)
	}
}

func ProjectDelete(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			projectServiceMissing(w, r, logg)
			return
		}

		result, err := svc.Delete(r.Context(), chi.URLParam(r, projectIDParam))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
