package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/inkstream/inkstream-be/internal/models"
)

// signingKey is read per call, not at package init: the config layer loads
// .env after this package is initialized, and a secret supplied that way
// must still sign every token.
func signingKey() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// Claims defines the JWT claims structure.
type Claims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type contextKey string

const viewerKey = contextKey("viewer")

// LoginPath is where unauthenticated mutating requests are redirected. The
// original destination is preserved in the "next" query parameter.
const LoginPath = "/auth/login"

// GenerateJWT creates a new JWT for a given user.
func GenerateJWT(user models.User) (string, error) {
	expirationTime := time.Now().Add(24 * time.Hour)
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(signingKey())
}

// ValidateJWT parses and validates a JWT string.
func ValidateJWT(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return signingKey(), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// ViewerFrom returns the viewer attached to the request context. Requests
// that never passed Identify, or carried no valid token, yield the
// anonymous viewer.
func ViewerFrom(ctx context.Context) models.Viewer {
	if v, ok := ctx.Value(viewerKey).(models.Viewer); ok {
		return v
	}
	return models.Anonymous
}

// WithViewer attaches a viewer to a context. Exposed for handler tests.
func WithViewer(ctx context.Context, v models.Viewer) context.Context {
	return context.WithValue(ctx, viewerKey, v)
}

// Identify resolves the request's viewer and stores it in the context.
// It never rejects: a missing or invalid token simply leaves the request
// anonymous. Authorization decisions happen downstream.
func Identify() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var tokenStr string

			// 1. Try the Authorization header
			authHeader := r.Header.Get("Authorization")
			if authHeader != "" {
				parts := strings.Split(authHeader, "Bearer ")
				if len(parts) == 2 {
					tokenStr = parts[1]
				}
			}

			// 2. Fall back to the cookie
			if tokenStr == "" {
				if cookie, err := r.Cookie("token"); err == nil {
					tokenStr = cookie.Value
				}
			}

			if tokenStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := ValidateJWT(tokenStr)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			viewer := models.Viewer{ID: claims.UserID, Username: claims.Username}
			next.ServeHTTP(w, r.WithContext(WithViewer(r.Context(), viewer)))
		})
	}
}

// RedirectToLogin sends an anonymous viewer to the login entry point with
// the original destination preserved for the post-login redirect.
func RedirectToLogin(w http.ResponseWriter, r *http.Request) {
	next := r.URL.RequestURI()
	http.Redirect(w, r, LoginPath+"?next="+url.QueryEscape(next), http.StatusFound)
}

// RequireViewer guards routes that only make sense for an authenticated
// viewer. Anonymous requests get the login redirect, not an error page.
func RequireViewer() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !ViewerFrom(r.Context()).Authenticated() {
				RedirectToLogin(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
