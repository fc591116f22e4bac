package middleware

import (
	"crypto/subtle"
	"net/http"

	"pulse/internal/pkg/errors"
	"pulse/internal/platform/config"
)

// APIKeyMiddleware guards mutating endpoints with a static bearer key. When
// no key is configured the instance is open and every request passes.
type APIKeyMiddleware struct {
	key string
}

func NewAPIKeyMiddleware(cfg config.AuthConfig) *APIKeyMiddleware {
	return &APIKeyMiddleware{key: cfg.APIKey}
}

func (m *APIKeyMiddleware) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.key == "" {
			next(w, r)
			return
		}

		expected := "Bearer " + m.key
		provided := r.Header.Get("Authorization")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
			errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Unauthorized", nil)
			return
		}

		next(w, r)
	}
}
