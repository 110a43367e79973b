package middleware

import "net/http"

// CORS answers cross-origin requests for the two proxy endpoints. The
// advertised origin is the request's own Origin when it is on the allow-list,
// otherwise the first configured origin; with no allow-list at all the
// wildcard is used so the minimal deployment still works.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if origin := resolveOrigin(allowedOrigins, r.Header.Get("Origin")); origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				if origin != "*" {
					w.Header().Add("Vary", "Origin")
				}
			}
			w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			next.ServeHTTP(w, r)
		})
	}
}

func resolveOrigin(allowed []string, requestOrigin string) string {
	if len(allowed) == 0 {
		return "*"
	}
	for _, origin := range allowed {
		if requestOrigin != "" && origin == requestOrigin {
			return requestOrigin
		}
	}
	return allowed[0]
}
