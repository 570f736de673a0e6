package middleware

import (
	"net/http"
	"slices"
)

type CORSMiddleware struct {
	wildcard bool
	origins  []string
}

// NewCORSMiddleware allows the given origins. Listed origins are echoed and may send
// the session cookie; "*" allows any origin without credentials.
func NewCORSMiddleware(origins []string) *CORSMiddleware {
	m := &CORSMiddleware{}
	for _, origin := range origins {
		if origin == "*" {
			m.wildcard = true
			continue
		}
		m.origins = append(m.origins, origin)
	}
	return m
}

func (m *CORSMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		origin := req.Header.Get("Origin")
		switch {
		case origin != "" && slices.Contains(m.origins, origin):
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Add("Vary", "Origin")
		case m.wildcard:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if req.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, req)
	})
}
