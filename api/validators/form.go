package validators

import (
	"net/http"
	"strings"

	pkgerrors "github.com/angelmondragon/storyboard-backend/pkg/errors"
)

// FormValue returns a trimmed urlencoded or multipart field.
func FormValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.FormValue(key))
}

// RequiredFormValue is FormValue that rejects blanks.
func RequiredFormValue(r *http.Request, key string) (string, error) {
	v := FormValue(r, key)
	if v == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{key: "is required"})
	}
	return v, nil
}
