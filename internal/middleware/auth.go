package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"zaiqa-pos/internal/auth"
)

type contextKey string

const authContextKey contextKey = "authContext"

type AuthContext struct {
	UserID   int64
	Role     auth.UserRole
	Email    string
	Name     string
	BranchID *int64
}

func WithAuthContext(ctx context.Context, authCtx *AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey, authCtx)
}

func GetAuthContext(ctx context.Context) (*AuthContext, bool) {
	value := ctx.Value(authContextKey)
	if value == nil {
		return nil, false
	}
	ac, ok := value.(*AuthContext)
	return ac, ok
}

func writeAuthError(w http.ResponseWriter, status int, code string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   code,
		"message": message,
	})
}

// StaffAuth admits branch staff and admins. Staff tokens must carry a
// branch; admin tokens may omit it and act across branches.
func StaffAuth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.ParseBearerToken(r.Header.Get("Authorization"))
			if strings.TrimSpace(token) == "" {
				writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authorization token required")
				return
			}

			claims, err := auth.VerifyAccessToken(token, jwtSecret)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
				return
			}

			if claims.Role != auth.RoleAdmin && claims.Role != auth.RoleStaff {
				writeAuthError(w, http.StatusForbidden, "FORBIDDEN", "Staff access required")
				return
			}

			if claims.Role == auth.RoleStaff && claims.BranchID == nil {
				writeAuthError(w, http.StatusForbidden, "FORBIDDEN", "Staff token missing branch")
				return
			}

			authCtx := &AuthContext{
				UserID:   claims.UserID,
				Role:     claims.Role,
				Email:    claims.Email,
				BranchID: claims.BranchID,
			}
			if claims.Name != nil {
				authCtx.Name = *claims.Name
			}
			next.ServeHTTP(w, r.WithContext(WithAuthContext(r.Context(), authCtx)))
		})
	}
}
