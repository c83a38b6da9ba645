package middleware

import (
	"net/http"

	"chess-shop/pkg/utils"
)

// CORS allows browser clients from any origin to call the API with a
// bearer token.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		h.Set("Access-Control-Max-Age", "600")

		if r.Method == http.MethodOptions {
			utils.ResponseNoContent(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}
