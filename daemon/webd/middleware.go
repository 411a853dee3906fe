package webd

import (
	"log"
	"net/http"
	"os"

	ghandlers "github.com/gorilla/handlers"
)

// tokenAuthenticationMiddleware checks for a valid token in the
// GuideAuthorization header, falling back to the api_token query param.
// If no token is configured, all requests pass.
func tokenAuthenticationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		validToken := os.Getenv("GUIDETOKEN")
		if validToken == "" {
			log.Printf("WARN: No GUIDETOKEN set, allowing all requests")
			next.ServeHTTP(w, r)
			return
		}

		token := r.Header.Get("GuideAuthorization")
		if token == "" {
			// Header token not set. Check alternate protocol, which is
			// using a query param with the name api_token.
			r.ParseForm()
			token = r.FormValue("api_token")
		}

		if token != validToken {
			log.Println("Invalid token",
				"method:", r.Method, "url:", r.URL, "proto:", r.Proto,
				"host:", r.Host, "remote-addr:", r.RemoteAddr,
				"content-length:", r.ContentLength,
				"user-agent:", r.UserAgent())
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func permissiveCorsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Add("Access-Control-Allow-Headers", "Origin, X-Requested-With, Content-Type, Accept, Authorization")
		next.ServeHTTP(w, r)
	})
}

func contentTypeMiddlewareFunc(contentType string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", contentType)
			next.ServeHTTP(w, r)
		})
	}
}

// https://github.com/gorilla/mux#middleware

func loggingMiddleware(next http.Handler) http.Handler {
	return ghandlers.CombinedLoggingHandler(os.Stdout, next)
}
