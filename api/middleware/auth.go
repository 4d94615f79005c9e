package middleware

import (
	"net/http"
	"strings"

	pkgAuth "github.com/angelmondragon/storyboard-backend/pkg/auth"
	"github.com/angelmondragon/storyboard-backend/pkg/config"
	"github.com/angelmondragon/storyboard-backend/pkg/logger"
)

// OptionalAuth seeds the user id from a valid bearer token. Requests without
// a token, or with one that does not verify, continue anonymously.
func OptionalAuth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				if logg != nil {
					logg.Warn(logg.WithField(r.Context(), "reason", err.Error()), "auth.token_ignored")
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithUserID(r.Context(), claims.UserID())
			if logg != nil {
				ctx = logg.WithUserID(ctx, claims.UserID())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

const bearerPrefix = "bearer "

// bearerToken returns "" for any other scheme, e.g. Basic credentials.
func bearerToken(header string) string {
	value := strings.TrimSpace(header)
	if len(value) < len(bearerPrefix) || !strings.EqualFold(value[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(value[len(bearerPrefix):])
}
