package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/lexprocure/api/internal/token"
)

// Guard authenticates requests with a Bearer access token. The subject is
// re-fetched from the store on every request so a role change or deletion
// invalidates in-flight tokens without waiting for expiry.
type Guard struct {
	codec *token.Codec
	users UserStore
}

func NewGuard(codec *token.Codec, users UserStore) *Guard {
	return &Guard{codec: codec, users: users}
}

func (g *Guard) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := extractBearerToken(r)
		if tokenStr == "" {
			writeUnauthorized(w, "Unauthorized")
			return
		}

		claims, err := g.codec.VerifyAccess(tokenStr)
		if err != nil {
			writeUnauthorized(w, "Invalid or expired token")
			return
		}

		user, err := g.users.GetByID(r.Context(), claims.UserID)
		if err != nil {
			writeUnauthorized(w, "Unauthorized")
			return
		}
		if string(user.Role) != claims.Role {
			writeUnauthorized(w, "Unauthorized")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSubject(r.Context(), user)))
	})
}

// RequireAdmin gates a route to ADMIN subjects. Must run after Authenticate.
func (g *Guard) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := SubjectFromContext(r.Context())
		if user == nil || !user.IsAdmin() {
			writeUnauthorized(w, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

func writeUnauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": msg})
}
