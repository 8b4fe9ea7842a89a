package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const (
	subjectKey contextKey = "subject"
	roleKey    contextKey = "role"
)

const RoleAdmin = "admin"

// AdminOnly guards administrative routes (config and questionnaire writes,
// feedback deletion). The token is an HS256 bearer JWT with a "role" claim;
// minting happens out of band (cmd/admintoken). Regular feedback traffic is
// authenticated by the surrounding platform, not here.
func AdminOnly(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := parseBearer(r, jwtSecret)
			if !ok {
				writeDenied(w, http.StatusUnauthorized, "invalid or missing token")
				return
			}
			role, _ := claims["role"].(string)
			if role != RoleAdmin {
				writeDenied(w, http.StatusForbidden, "admin access required")
				return
			}
			ctx := r.Context()
			if sub, ok := claims["sub"].(string); ok {
				ctx = context.WithValue(ctx, subjectKey, sub)
			}
			ctx = context.WithValue(ctx, roleKey, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IsAdmin reports whether the request carries a valid admin token. Used on
// routes that are open in general but gate a single field (the weight
// override on feedback updates).
func IsAdmin(r *http.Request, jwtSecret string) bool {
	claims, ok := parseBearer(r, jwtSecret)
	if !ok {
		return false
	}
	role, _ := claims["role"].(string)
	return role == RoleAdmin
}

// GetSubject returns the token subject stored by AdminOnly, or "".
func GetSubject(ctx context.Context) string {
	if sub, ok := ctx.Value(subjectKey).(string); ok {
		return sub
	}
	return ""
}

func writeDenied(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + message + `"}`))
}

func parseBearer(r *http.Request, jwtSecret string) (jwt.MapClaims, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, false
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	return claims, ok
}
