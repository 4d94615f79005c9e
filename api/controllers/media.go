package controllers

import (
	"errors"
	"net/http"

	"github.com/angelmondragon/storyboard-backend/api/middleware"
	"github.com/angelmondragon/storyboard-backend/api/responses"
	"github.com/angelmondragon/storyboard-backend/api/validators"
	"github.com/angelmondragon/storyboard-backend/internal/media"
	pkgerrors "github.com/angelmondragon/storyboard-backend/pkg/errors"
	"github.com/angelmondragon/storyboard-backend/pkg/logger"
)

const (
	multipartMemory   = 32 << 20
	multipartOverhead = 1 << 20
)

// MediaUpload stores the multipart "file" part. owner_id falls back to the
// authenticated user.
func MediaUpload(svc media.Service, maxBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		if maxBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)
		}
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeTooLarge, err, "file exceeds upload limit"))
				return
			}
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}
		defer func() {
			if r.MultipartForm != nil {
				_ = r.MultipartForm.RemoveAll()
			}
		}()

		owner := validators.FormValue(r, "owner_id")
		if owner == "" {
			owner = middleware.UserIDFromContext(ctx)
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file is required"))
			return
		}
		defer file.Close()

		asset, err := svc.Upload(ctx, media.UploadInput{
			OwnerID:     owner,
			ProjectID:   validators.FormValue(r, "project_id"),
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Body:        file,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, asset)
	}
}

func MediaList(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		q := r.URL.Query()
		assets, err := svc.List(r.Context(), media.Filter{
			OwnerID:   q.Get("owner_id"),
			ProjectID: q.Get("project_id"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, assets)
	}
}
