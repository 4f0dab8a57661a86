package middleware

import (
	"net/http"

	"campgrounds/internal/domain"
	"campgrounds/internal/observability"
	"campgrounds/internal/render"
	"campgrounds/internal/security"
)

// CSRF validates the synchronizer token on state-changing requests. The
// expected token lives server-side in the session; rendered forms carry
// it in the csrf_token field and programmatic clients may send the
// X-CSRF-Token header instead. Must run after the session middleware.
func CSRF(renderer *render.Renderer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isSafeMethod(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			session, ok := GetSession(r.Context())
			if !ok {
				renderer.Forbidden(w, r)
				return
			}

			if err := security.VerifyCSRF(session.Data[domain.CSRFTokenKey], extractCSRFToken(r)); err != nil {
				observability.FromContext(r.Context()).Warn("csrf validation failed",
					"method", r.Method, "path", r.URL.Path)
				renderer.Forbidden(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isSafeMethod(method string) bool {
	return method == http.MethodGet ||
		method == http.MethodHead ||
		method == http.MethodOptions
}

// extractCSRFToken reads the submitted token, preferring the form field
// over the header.
func extractCSRFToken(r *http.Request) string {
	if token := r.PostFormValue("csrf_token"); token != "" {
		return token
	}
	return r.Header.Get("X-CSRF-Token")
}
