package controllers

import (
	"net/http"

	"github.com/angelmondragon/storyboard-backend/api/responses"
	"github.com/angelmondragon/storyboard-backend/api/validators"
	"github.com/angelmondragon/storyboard-backend/internal/export"
	pkgerrors "github.com/angelmondragon/storyboard-backend/pkg/errors"
	"github.com/angelmondragon/storyboard-backend/pkg/logger"
)

// Export renders the whole artifact before writing, so a failure never
// leaves a partial stream.
func Export(svc export.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "export service unavailable"))
			return
		}

		var body export.Request
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		artifact, err := svc.Export(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteBinary(w, artifact.ContentType, artifact.FileName, artifact.Data)
	}
}
