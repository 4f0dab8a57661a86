package middleware

import (
	"net/http"
	"strings"
)

// overridable lists the methods a POST may be promoted to.
var overridable = map[string]bool{
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// MethodOverride lets clients with POST-only forms reach PUT and DELETE
// routes. The effective method comes from the `_method` form field or
// the X-HTTP-Method-Override header, checked in that order. Must run
// before the router.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if m := overrideFor(r); overridable[m] {
				r.Method = m
			}
		}
		next.ServeHTTP(w, r)
	})
}

func overrideFor(r *http.Request) string {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err == nil {
			if m := r.PostForm.Get("_method"); m != "" {
				return strings.ToUpper(m)
			}
		}
	}
	return strings.ToUpper(r.Header.Get("X-HTTP-Method-Override"))
}
